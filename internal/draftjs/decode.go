package draftjs

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Decode builds a Document from a decoded JSON object. It assumes Detect
// returned FormatLegacy and is strict about the remaining block fields:
// type, text, inlineStyleRanges and entityRanges must all be present.
func Decode(raw map[string]any) (Document, error) {
	doc := Document{}
	blocks, ok := blockMaps(raw["blocks"])
	if !ok {
		return doc, fmt.Errorf("%w: blocks is not a list of objects", ErrMalformedBlock)
	}

	entityMap, err := decodeEntityMap(raw["entityMap"])
	if err != nil {
		return doc, err
	}
	doc.EntityMap = entityMap

	doc.Blocks = make([]Block, 0, len(blocks))
	for i, rawBlock := range blocks {
		block, err := decodeBlock(rawBlock)
		if err != nil {
			return Document{}, fmt.Errorf("block %d: %w", i, err)
		}
		doc.Blocks = append(doc.Blocks, block)
	}
	return doc, nil
}

func decodeBlock(raw map[string]any) (Block, error) {
	block := Block{}
	if key, ok := raw["key"].(string); ok {
		block.Key = key
	} else if raw["key"] != nil {
		block.Key = fmt.Sprint(raw["key"])
	}

	var err error
	if block.Type, err = requiredString(raw, "type"); err != nil {
		return block, err
	}
	if block.Text, err = requiredString(raw, "text"); err != nil {
		return block, err
	}

	styles, err := requiredList(raw, "inlineStyleRanges")
	if err != nil {
		return block, err
	}
	block.InlineStyleRanges = make([]StyleRange, 0, len(styles))
	for i, entry := range styles {
		item, ok := entry.(map[string]any)
		if !ok {
			return block, fmt.Errorf("%w: inlineStyleRanges[%d] is not an object", ErrMalformedBlock, i)
		}
		offset, length, err := decodeSpan(item)
		if err != nil {
			return block, fmt.Errorf("inlineStyleRanges[%d]: %w", i, err)
		}
		style, err := requiredString(item, "style")
		if err != nil {
			return block, fmt.Errorf("inlineStyleRanges[%d]: %w", i, err)
		}
		block.InlineStyleRanges = append(block.InlineStyleRanges, StyleRange{
			Offset: offset,
			Length: length,
			Style:  Style(style),
		})
	}

	entities, err := requiredList(raw, "entityRanges")
	if err != nil {
		return block, err
	}
	block.EntityRanges = make([]EntityRange, 0, len(entities))
	for i, entry := range entities {
		item, ok := entry.(map[string]any)
		if !ok {
			return block, fmt.Errorf("%w: entityRanges[%d] is not an object", ErrMalformedBlock, i)
		}
		offset, length, err := decodeSpan(item)
		if err != nil {
			return block, fmt.Errorf("entityRanges[%d]: %w", i, err)
		}
		key, ok := EntityKey(item["key"])
		if !ok {
			return block, fmt.Errorf("%w: entityRanges[%d] key missing", ErrMalformedBlock, i)
		}
		block.EntityRanges = append(block.EntityRanges, EntityRange{
			Offset: offset,
			Length: length,
			Key:    key,
		})
	}
	return block, nil
}

func decodeEntityMap(value any) (map[string]Entity, error) {
	if value == nil {
		return map[string]Entity{}, nil
	}
	rawMap, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected object, got %T", ErrMalformedEntityMap, value)
	}
	out := make(map[string]Entity, len(rawMap))
	for key, entry := range rawMap {
		item, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entity %q is not an object", ErrMalformedEntityMap, key)
		}
		entity := Entity{}
		entity.Type, _ = item["type"].(string)
		entity.Mutability, _ = item["mutability"].(string)
		entity.Data, _ = item["data"].(map[string]any)
		out[key] = entity
	}
	return out, nil
}

// EntityKey stringifies an entity range key the way entity map keys are
// written: integral numbers without a fractional part, strings verbatim.
func EntityKey(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case nil:
		return "", false
	}
	if n, ok := toInt(value); ok {
		return strconv.Itoa(n), true
	}
	return fmt.Sprint(value), true
}

func decodeSpan(item map[string]any) (int, int, error) {
	offset, ok := toInt(item["offset"])
	if !ok {
		return 0, 0, fmt.Errorf("%w: offset must be an integer", ErrMalformedBlock)
	}
	length, ok := toInt(item["length"])
	if !ok {
		return 0, 0, fmt.Errorf("%w: length must be an integer", ErrMalformedBlock)
	}
	return offset, length, nil
}

func requiredString(raw map[string]any, field string) (string, error) {
	value, ok := raw[field]
	if !ok {
		return "", fmt.Errorf("%w: %s missing", ErrMalformedBlock, field)
	}
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrMalformedBlock, field)
	}
	return text, nil
}

func requiredList(raw map[string]any, field string) ([]any, error) {
	value, ok := raw[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s missing", ErrMalformedBlock, field)
	}
	switch typed := value.(type) {
	case []any:
		return typed, nil
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list", ErrMalformedBlock, field)
	}
}

func toInt(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int32:
		return int(typed), true
	case int64:
		return int(typed), true
	case float64:
		if typed != math.Trunc(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		return int(typed), true
	case float32:
		return toInt(float64(typed))
	case json.Number:
		n, err := typed.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
