// Package markup renders legacy block text with its out-of-band style and
// entity ranges folded in as inline HTML tags.
package markup

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-richtext/internal/draftjs"
)

var (
	ErrUnknownStyle  = errors.New("markup: unknown inline style")
	ErrMissingEntity = errors.New("markup: entity not found")
	ErrInvalidRange  = errors.New("markup: invalid range")
)

const inlineCodeClass = "inline-code"

var styleTags = map[draftjs.Style]string{
	draftjs.StyleBold:          "b",
	draftjs.StyleItalic:        "i",
	draftjs.StyleStrikethrough: "s",
	draftjs.StyleCode:          "code",
}

// fragments holds the markup spliced in right after a given character.
// Closing tags are kept newest first so ranges ending together nest
// properly; opening tags keep declaration order.
type fragments struct {
	closes []string
	opens  []string
}

type operations map[int]*fragments

func (ops operations) at(offset int) *fragments {
	f, ok := ops[offset]
	if !ok {
		f = &fragments{}
		ops[offset] = f
	}
	return f
}

func (ops operations) add(offset, length int, open, close string) {
	start := ops.at(offset - 1)
	start.opens = append(start.opens, open)

	end := ops.at(offset + length - 1)
	end.closes = append([]string{close}, end.closes...)
}

func (ops operations) apply(text []rune) string {
	var out strings.Builder
	out.Grow(len(text) + len(ops)*8)

	cursor := 0
	for _, offset := range slices.Sorted(maps.Keys(ops)) {
		f := ops[offset]
		out.WriteString(string(text[cursor : offset+1]))
		for _, tag := range f.closes {
			out.WriteString(tag)
		}
		for _, tag := range f.opens {
			out.WriteString(tag)
		}
		cursor = offset + 1
	}
	out.WriteString(string(text[cursor:]))
	return out.String()
}

// Render interleaves style and entity ranges into text. All offsets are
// resolved against the original text. Entity ranges are applied after
// style ranges, so at a shared boundary links open after and close before
// the styles around them.
func Render(text string, styles []draftjs.StyleRange, entities []draftjs.EntityRange, entityMap map[string]draftjs.Entity) (string, error) {
	runes := []rune(text)
	ops := operations{}

	for i, r := range styles {
		tag, ok := styleTags[r.Style]
		if !ok {
			return "", fmt.Errorf("%w: %q (inlineStyleRanges[%d])", ErrUnknownStyle, r.Style, i)
		}
		if err := checkSpan(r.Offset, r.Length, len(runes)); err != nil {
			return "", fmt.Errorf("inlineStyleRanges[%d]: %w", i, err)
		}
		open := tag
		if r.Style == draftjs.StyleCode {
			open = fmt.Sprintf(`%s class="%s"`, tag, inlineCodeClass)
		}
		ops.add(r.Offset, r.Length, "<"+open+">", "</"+tag+">")
	}

	for i, r := range entities {
		entity, ok := entityMap[r.Key]
		if !ok {
			return "", fmt.Errorf("%w: key %q (entityRanges[%d])", ErrMissingEntity, r.Key, i)
		}
		href, ok := entity.URL()
		if !ok {
			return "", fmt.Errorf("%w: key %q has no url (entityRanges[%d])", ErrMissingEntity, r.Key, i)
		}
		if err := checkSpan(r.Offset, r.Length, len(runes)); err != nil {
			return "", fmt.Errorf("entityRanges[%d]: %w", i, err)
		}
		ops.add(r.Offset, r.Length, fmt.Sprintf(`<a href="%s">`, href), "</a>")
	}

	if len(ops) == 0 {
		return text, nil
	}
	return ops.apply(runes), nil
}

func checkSpan(offset, length, size int) error {
	switch {
	case offset < 0:
		return fmt.Errorf("%w: negative offset %d", ErrInvalidRange, offset)
	case length <= 0:
		return fmt.Errorf("%w: length %d at offset %d", ErrInvalidRange, length, offset)
	case offset+length > size:
		return fmt.Errorf("%w: span %d+%d exceeds text length %d", ErrInvalidRange, offset, length, size)
	}
	return nil
}
