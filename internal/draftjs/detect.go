package draftjs

// Format is the result of the structural check run before decoding.
type Format int

const (
	// FormatEmpty marks documents without blocks; they are left untouched.
	FormatEmpty Format = iota
	// FormatLegacy marks documents whose every block carries an identity key.
	FormatLegacy
	// FormatNotLegacy marks documents that are already in another shape.
	FormatNotLegacy
)

func (f Format) String() string {
	switch f {
	case FormatEmpty:
		return "empty"
	case FormatLegacy:
		return "legacy"
	case FormatNotLegacy:
		return "not_legacy"
	default:
		return "unknown"
	}
}

// Detect reports whether raw looks like legacy content. A single block
// without a "key" field is enough to classify the whole document as
// FormatNotLegacy.
func Detect(raw map[string]any) Format {
	if raw == nil {
		return FormatEmpty
	}
	value, ok := raw["blocks"]
	if !ok || value == nil {
		return FormatEmpty
	}
	blocks, ok := blockMaps(value)
	if !ok {
		return FormatNotLegacy
	}
	if len(blocks) == 0 {
		return FormatEmpty
	}
	for _, block := range blocks {
		if block == nil {
			return FormatNotLegacy
		}
		if _, ok := block["key"]; !ok {
			return FormatNotLegacy
		}
	}
	return FormatLegacy
}

func blockMaps(value any) ([]map[string]any, bool) {
	switch typed := value.(type) {
	case []map[string]any:
		return typed, true
	case []any:
		out := make([]map[string]any, len(typed))
		for i, entry := range typed {
			block, ok := entry.(map[string]any)
			if !ok {
				return nil, false
			}
			out[i] = block
		}
		return out, true
	default:
		return nil, false
	}
}
