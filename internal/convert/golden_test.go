package convert_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/goliatone/go-richtext/internal/convert"
	"github.com/goliatone/go-richtext/pkg/testsupport"
)

func TestConvertMatchesGoldenDocument(t *testing.T) {
	legacy := testsupport.MustLoadDocument(t, "testdata/legacy_page.json")

	out, outcome, err := convert.NewConverter(convert.WithSchemaValidation(true)).Convert(legacy)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if outcome != convert.OutcomeConverted {
		t.Fatalf("expected converted outcome, got %s", outcome)
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := testsupport.MustLoadDocument(t, "testdata/editor_page.json")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("golden mismatch\nwant %v\ngot  %v", want, got)
	}

	raw, err := testsupport.LoadFixture("testdata/editor_page.json")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	var editorDoc map[string]any
	if err := json.Unmarshal(raw, &editorDoc); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	again, outcome, err := convert.Convert(editorDoc)
	if err != nil || outcome != convert.OutcomeNotLegacy {
		t.Fatalf("expected converted output to be left alone, got %s, %v", outcome, err)
	}
	if !reflect.DeepEqual(again, editorDoc) {
		t.Fatal("expected identity on second pass")
	}
}
