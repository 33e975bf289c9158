// Package editorjs models the block editor document the converter produces.
package editorjs

// Block type identifiers as written to the "type" field.
const (
	TypeParagraph = "paragraph"
	TypeHeader    = "header"
	TypeQuote     = "quote"
	TypeCode      = "code"
	TypeList      = "list"
)

// ListStyle selects numbered or bulleted list rendering.
type ListStyle string

const (
	ListOrdered   ListStyle = "ordered"
	ListUnordered ListStyle = "unordered"
)

// AlignLeft is the only quote alignment produced by the converter.
const AlignLeft = "left"

// Document is the block editor output.
type Document struct {
	Blocks []Block
}

// Block is one of Paragraph, Header, Quote, Code or List.
type Block interface {
	Type() string
	Data() map[string]any
}

type Paragraph struct {
	Text string
}

func (Paragraph) Type() string { return TypeParagraph }

func (p Paragraph) Data() map[string]any {
	return map[string]any{"text": p.Text}
}

// Header carries a heading level between 1 and 3.
type Header struct {
	Text  string
	Level int
}

func (Header) Type() string { return TypeHeader }

func (h Header) Data() map[string]any {
	return map[string]any{"text": h.Text, "level": h.Level}
}

type Quote struct {
	Text      string
	Alignment string
}

func (Quote) Type() string { return TypeQuote }

func (q Quote) Data() map[string]any {
	alignment := q.Alignment
	if alignment == "" {
		alignment = AlignLeft
	}
	return map[string]any{"text": q.Text, "alignment": alignment}
}

type Code struct {
	Text string
}

func (Code) Type() string { return TypeCode }

func (c Code) Data() map[string]any {
	return map[string]any{"text": c.Text}
}

// List groups consecutive list items sharing a style.
type List struct {
	Style ListStyle
	Items []string
}

func (List) Type() string { return TypeList }

func (l List) Data() map[string]any {
	items := make([]any, len(l.Items))
	for i, item := range l.Items {
		items[i] = item
	}
	return map[string]any{"style": string(l.Style), "items": items}
}

// Map encodes the document into the JSON object shape stored by the editor.
func (d Document) Map() map[string]any {
	blocks := make([]any, 0, len(d.Blocks))
	for _, block := range d.Blocks {
		if block == nil {
			continue
		}
		blocks = append(blocks, map[string]any{
			"type": block.Type(),
			"data": block.Data(),
		})
	}
	return map[string]any{"blocks": blocks}
}
