// Package convert turns legacy rich-text content into block editor documents.
package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-richtext/internal/draftjs"
	"github.com/goliatone/go-richtext/internal/editorjs"
	"github.com/goliatone/go-richtext/internal/markup"
)

var ErrUnknownHeaderLevel = errors.New("convert: unknown header level")

const (
	listItemMarker = "list-item"
	headerPrefix   = "header"
	blockquoteType = "blockquote"
	codeBlockType  = "code-block"
)

var headerLevels = map[string]int{"one": 1, "two": 2, "three": 3}

// listAccumulator carries the list run in progress across the block walk.
// A nil pending list is the idle state.
type listAccumulator struct {
	pending *editorjs.List
	blocks  []editorjs.Block
}

func (acc *listAccumulator) item(style editorjs.ListStyle, text string) {
	if acc.pending != nil && acc.pending.Style == style {
		acc.pending.Items = append(acc.pending.Items, text)
		return
	}
	acc.flush()
	acc.pending = &editorjs.List{Style: style, Items: []string{text}}
}

func (acc *listAccumulator) emit(block editorjs.Block) {
	acc.flush()
	acc.blocks = append(acc.blocks, block)
}

func (acc *listAccumulator) flush() {
	if acc.pending == nil {
		return
	}
	acc.blocks = append(acc.blocks, *acc.pending)
	acc.pending = nil
}

// Translate maps legacy blocks to editor blocks in order, folding runs of
// list items with the same style into a single list block.
func Translate(doc draftjs.Document) (editorjs.Document, error) {
	acc := &listAccumulator{blocks: make([]editorjs.Block, 0, len(doc.Blocks))}

	for i, block := range doc.Blocks {
		text, err := markup.Render(block.Text, block.InlineStyleRanges, block.EntityRanges, doc.EntityMap)
		if err != nil {
			return editorjs.Document{}, fmt.Errorf("block %d (%s): %w", i, block.Key, err)
		}

		if strings.Contains(block.Type, listItemMarker) {
			style, _, _ := strings.Cut(block.Type, "-")
			acc.item(editorjs.ListStyle(style), text)
			continue
		}

		target, err := classify(block.Type, text)
		if err != nil {
			return editorjs.Document{}, fmt.Errorf("block %d (%s): %w", i, block.Key, err)
		}
		acc.emit(target)
	}
	acc.flush()

	return editorjs.Document{Blocks: acc.blocks}, nil
}

func classify(blockType, text string) (editorjs.Block, error) {
	switch {
	case strings.HasPrefix(blockType, headerPrefix):
		level, err := headerLevel(blockType)
		if err != nil {
			return nil, err
		}
		return editorjs.Header{Text: text, Level: level}, nil
	case blockType == blockquoteType:
		return editorjs.Quote{Text: text, Alignment: editorjs.AlignLeft}, nil
	case blockType == codeBlockType:
		return editorjs.Code{Text: text}, nil
	default:
		return editorjs.Paragraph{Text: text}, nil
	}
}

func headerLevel(blockType string) (int, error) {
	parts := strings.Split(blockType, "-")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHeaderLevel, blockType)
	}
	level, ok := headerLevels[parts[1]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHeaderLevel, blockType)
	}
	return level, nil
}
