package migration_test

import (
	"fmt"

	"github.com/google/uuid"
)

// seqID returns deterministic, ordered IDs.
func seqID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func legacyDoc(text string) map[string]any {
	return map[string]any{
		"blocks": []any{
			map[string]any{
				"key":               "a1",
				"type":              "unstyled",
				"text":              text,
				"inlineStyleRanges": []any{},
				"entityRanges":      []any{},
			},
		},
		"entityMap": map[string]any{},
	}
}

func editorDoc(text string) map[string]any {
	return map[string]any{
		"blocks": []any{
			map[string]any{"type": "paragraph", "data": map[string]any{"text": text}},
		},
	}
}

func brokenDoc() map[string]any {
	return map[string]any{
		"blocks": []any{
			map[string]any{
				"key":               "b1",
				"type":              "header-seven",
				"text":              "nope",
				"inlineStyleRanges": []any{},
				"entityRanges":      []any{},
			},
		},
		"entityMap": map[string]any{},
	}
}

func firstText(doc map[string]any) string {
	blocks, _ := doc["blocks"].([]any)
	if len(blocks) == 0 {
		return ""
	}
	block, _ := blocks[0].(map[string]any)
	data, _ := block["data"].(map[string]any)
	text, _ := data["text"].(string)
	return text
}
