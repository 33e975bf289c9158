package editorjs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrDocumentInvalid = errors.New("editorjs: document failed schema validation")

// ValidationIssue captures a single schema violation.
type ValidationIssue struct {
	Location string
	Message  string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrDocumentInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrDocumentInvalid
}

func textData(extra map[string]any, required ...string) map[string]any {
	properties := map[string]any{
		"text": map[string]any{"type": "string"},
	}
	for key, value := range extra {
		properties[key] = value
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             append([]string{"text"}, required...),
		"additionalProperties": false,
	}
}

func blockSchema(blockType string, data map[string]any) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": map[string]any{"const": blockType},
			"data": data,
		},
		"required":             []string{"type", "data"},
		"additionalProperties": false,
	}
}

// DocumentSchema describes the subset of the editor output this module writes.
func DocumentSchema() map[string]any {
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"blocks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"oneOf": []any{
						blockSchema(TypeParagraph, textData(nil)),
						blockSchema(TypeHeader, textData(map[string]any{
							"level": map[string]any{"type": "integer", "enum": []any{1, 2, 3}},
						}, "level")),
						blockSchema(TypeQuote, textData(map[string]any{
							"alignment": map[string]any{"const": AlignLeft},
						}, "alignment")),
						blockSchema(TypeCode, textData(nil)),
						blockSchema(TypeList, map[string]any{
							"type": "object",
							"properties": map[string]any{
								"style": map[string]any{"enum": []any{string(ListOrdered), string(ListUnordered)}},
								"items": map[string]any{
									"type":     "array",
									"items":    map[string]any{"type": "string"},
									"minItems": 1,
								},
							},
							"required":             []string{"style", "items"},
							"additionalProperties": false,
						}),
					},
				},
			},
		},
		"required": []string{"blocks"},
	}
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiledSchema, compileErr = compileSchema(DocumentSchema())
	})
	return compiledSchema, compileErr
}

// Validate checks an encoded document against DocumentSchema.
func Validate(doc map[string]any) error {
	compiled, err := schema()
	if err != nil {
		return fmt.Errorf("editorjs: compile schema: %w", err)
	}
	// Round trip through JSON so Go ints and string slices validate the same
	// way stored documents do.
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("editorjs: encode document: %w", err)
	}
	var instance any
	if err := json.Unmarshal(encoded, &instance); err != nil {
		return fmt.Errorf("editorjs: decode document: %w", err)
	}
	if err := compiled.Validate(instance); err != nil {
		return &ValidationError{Issues: issues(err), Cause: err}
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("editorjs.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("editorjs.json")
}

func issues(err error) []ValidationIssue {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) || validationErr == nil {
		return []ValidationIssue{{Message: err.Error()}}
	}
	out := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			out = append(out, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return out
}
