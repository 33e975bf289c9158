package convert

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-richtext/internal/draftjs"
	"github.com/goliatone/go-richtext/internal/editorjs"
	"github.com/goliatone/go-richtext/internal/markup"
)

// Outcome describes what Convert did with a document.
type Outcome string

const (
	// OutcomeConverted means a new editor document was produced.
	OutcomeConverted Outcome = "converted"
	// OutcomeUnchanged means the document had no blocks and was returned as is.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeNotLegacy means at least one block lacked an identity key, so the
	// document was returned as is.
	OutcomeNotLegacy Outcome = "not_legacy"
)

// Convert translates a decoded legacy document into the editor shape. Inputs
// that are empty or not in the legacy shape are returned untouched, so running
// Convert twice over the same document is safe.
func Convert(raw map[string]any) (map[string]any, Outcome, error) {
	switch draftjs.Detect(raw) {
	case draftjs.FormatEmpty:
		return raw, OutcomeUnchanged, nil
	case draftjs.FormatNotLegacy:
		return raw, OutcomeNotLegacy, nil
	}

	doc, err := draftjs.Decode(raw)
	if err != nil {
		return nil, "", err
	}
	translated, err := Translate(doc)
	if err != nil {
		return nil, "", err
	}
	return translated.Map(), OutcomeConverted, nil
}

// Option configures a Converter.
type Option func(*Converter)

// WithSchemaValidation checks every converted document against the editor
// schema before returning it.
func WithSchemaValidation(enabled bool) Option {
	return func(c *Converter) {
		c.validate = enabled
	}
}

// Converter wraps Convert with optional output validation.
type Converter struct {
	validate bool
}

// NewConverter builds a Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Convert behaves like the package level Convert.
func (c *Converter) Convert(raw map[string]any) (map[string]any, Outcome, error) {
	out, outcome, err := Convert(raw)
	if err != nil {
		return nil, outcome, err
	}
	if c != nil && c.validate && outcome == OutcomeConverted {
		if err := editorjs.Validate(out); err != nil {
			return nil, "", fmt.Errorf("convert: %w", err)
		}
	}
	return out, outcome, nil
}

var documentErrors = []error{
	markup.ErrUnknownStyle,
	markup.ErrMissingEntity,
	markup.ErrInvalidRange,
	ErrUnknownHeaderLevel,
	draftjs.ErrMalformedBlock,
	draftjs.ErrMalformedEntityMap,
	editorjs.ErrDocumentInvalid,
}

// IsDocumentError reports whether err was caused by the content of a
// document rather than by the surrounding infrastructure.
func IsDocumentError(err error) bool {
	for _, target := range documentErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
