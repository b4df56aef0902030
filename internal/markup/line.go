package markup

import (
	"regexp"

	"github.com/declaim/declaim/internal/emoji"

	"github.com/mattn/go-runewidth"
)

// Line is one parsed script line. Content carries the final text with the
// alignment marker stripped and escapes expanded; VisibleLength counts only
// what the terminal will display (ANSI sequences count zero, each expanded
// emoji counts one). Immutable once constructed.
type Line struct {
	Content       string
	VisibleLength int
	Style         Style
}

var emojiCode = regexp.MustCompile(`:[A-Za-z0-9_+-]+:`)

// ParseLine parses one raw script line: alignment marker, color escapes,
// then emoji shortcodes, in that order. table may be nil.
func ParseLine(raw string, table emoji.Table) Line {
	style, rest := resolveStyle(raw)
	// Cell width, not rune count: double-width text still lines up.
	visible := runewidth.StringWidth(rest)

	content, drop := expandEscapes(rest)
	visible -= drop

	content = emojiCode.ReplaceAllStringFunc(content, func(code string) string {
		glyph, ok := table.Lookup(code[1 : len(code)-1])
		if !ok {
			return code
		}
		// The whole code collapses to one displayed glyph.
		visible -= len(code) - 1
		return glyph
	})

	return Line{Content: content, VisibleLength: visible, Style: style}
}

// Blank returns the line a coerced-empty slide is padded with.
func Blank() Line {
	return Line{Style: LeftAligned}
}
