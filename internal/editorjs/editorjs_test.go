package editorjs_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-richtext/internal/editorjs"
)

func TestDocumentMapEncodesBlocks(t *testing.T) {
	doc := editorjs.Document{Blocks: []editorjs.Block{
		editorjs.Header{Text: "Title", Level: 2},
		editorjs.Paragraph{Text: "Body"},
		editorjs.Quote{Text: "Said"},
		editorjs.Code{Text: "x := 1"},
		editorjs.List{Style: editorjs.ListUnordered, Items: []string{"a", "b"}},
	}}

	encoded := doc.Map()
	blocks, ok := encoded["blocks"].([]any)
	if !ok || len(blocks) != 5 {
		t.Fatalf("expected 5 encoded blocks, got %#v", encoded["blocks"])
	}

	header := blocks[0].(map[string]any)
	if header["type"] != "header" {
		t.Fatalf("expected header type, got %v", header["type"])
	}
	if data := header["data"].(map[string]any); data["level"] != 2 || data["text"] != "Title" {
		t.Fatalf("unexpected header data %#v", data)
	}

	quote := blocks[2].(map[string]any)["data"].(map[string]any)
	if quote["alignment"] != "left" {
		t.Fatalf("expected default left alignment, got %v", quote["alignment"])
	}

	list := blocks[4].(map[string]any)
	if list["type"] != "list" {
		t.Fatalf("expected list type, got %v", list["type"])
	}
	data := list["data"].(map[string]any)
	items := data["items"].([]any)
	if data["style"] != "unordered" || len(items) != 2 || items[1] != "b" {
		t.Fatalf("unexpected list data %#v", data)
	}
}

func TestDocumentMapEmpty(t *testing.T) {
	encoded := editorjs.Document{}.Map()
	blocks, ok := encoded["blocks"].([]any)
	if !ok || len(blocks) != 0 {
		t.Fatalf("expected empty block list, got %#v", encoded["blocks"])
	}
}

func TestValidateAcceptsConverterOutput(t *testing.T) {
	doc := editorjs.Document{Blocks: []editorjs.Block{
		editorjs.Header{Text: "Title", Level: 1},
		editorjs.Paragraph{Text: "<b>bold</b>"},
		editorjs.Quote{Text: "q", Alignment: editorjs.AlignLeft},
		editorjs.Code{Text: "code"},
		editorjs.List{Style: editorjs.ListOrdered, Items: []string{"one"}},
	}}
	if err := editorjs.Validate(doc.Map()); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsOutOfRangeHeaderLevel(t *testing.T) {
	doc := editorjs.Document{Blocks: []editorjs.Block{editorjs.Header{Text: "Deep", Level: 4}}}
	err := editorjs.Validate(doc.Map())
	if !errors.Is(err, editorjs.ErrDocumentInvalid) {
		t.Fatalf("expected ErrDocumentInvalid, got %v", err)
	}
	var validationErr *editorjs.ValidationError
	if !errors.As(err, &validationErr) || len(validationErr.Issues) == 0 {
		t.Fatalf("expected validation issues, got %v", err)
	}
}

func TestValidateRejectsLegacyShape(t *testing.T) {
	legacy := map[string]any{
		"blocks": []any{map[string]any{"key": "a1", "type": "unstyled", "text": "x"}},
	}
	if err := editorjs.Validate(legacy); !errors.Is(err, editorjs.ErrDocumentInvalid) {
		t.Fatalf("expected ErrDocumentInvalid, got %v", err)
	}
}
