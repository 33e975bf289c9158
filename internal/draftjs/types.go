// Package draftjs decodes raw content saved by the legacy rich-text editor.
package draftjs

// Style names an inline style understood by the legacy editor.
type Style string

const (
	StyleBold          Style = "BOLD"
	StyleItalic        Style = "ITALIC"
	StyleStrikethrough Style = "STRIKETHROUGH"
	StyleCode          Style = "CODE"
)

// Document is the raw content state saved by the legacy editor.
type Document struct {
	Blocks    []Block
	EntityMap map[string]Entity
}

// Block is a single legacy content block. Offsets in its ranges address
// Text as it was stored, counted in code points.
type Block struct {
	Key               string
	Type              string
	Text              string
	InlineStyleRanges []StyleRange
	EntityRanges      []EntityRange
}

// StyleRange marks Length code points starting at Offset with Style.
type StyleRange struct {
	Offset int
	Length int
	Style  Style
}

// EntityRange attaches the entity stored under Key to a span of text.
type EntityRange struct {
	Offset int
	Length int
	Key    string
}

// Entity is an out-of-band annotation referenced by entity ranges.
type Entity struct {
	Type       string
	Mutability string
	Data       map[string]any
}

// URL returns the link target stored in the entity data.
func (e Entity) URL() (string, bool) {
	if e.Data == nil {
		return "", false
	}
	url, ok := e.Data["url"].(string)
	return url, ok
}
