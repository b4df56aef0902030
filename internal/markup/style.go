// Package markup turns raw script lines into styled, visible-length-aware
// lines: an alignment style resolved from the line's leading marker, inline
// \x color escapes expanded to ANSI attributes, and :name: shortcodes
// expanded to emoji glyphs.
package markup

// Style is the closed set of alignment and rule kinds a line can carry.
type Style int

const (
	// LeftFlushed pins the line to the left edge ("<< " marker).
	LeftFlushed Style = iota
	// LeftAligned is the default: the whole slide block is centered and
	// lines align to the block's left edge ("< " marker or no marker).
	LeftAligned
	// Centered centers the line on its own visible length ("| " marker).
	Centered
	// RightAligned aligns to the block's right edge ("> " marker).
	RightAligned
	// RightFlushed pins the line to the right edge (">> " marker).
	RightFlushed
	// HorizontalRuler tiles a pattern across the slide block width ("/").
	HorizontalRuler
	// FullScreenHorizontalRuler tiles across the full width ("//").
	FullScreenHorizontalRuler
)

// String returns the style name for diagnostics and test failures.
func (s Style) String() string {
	switch s {
	case LeftFlushed:
		return "LeftFlushed"
	case LeftAligned:
		return "LeftAligned"
	case Centered:
		return "Centered"
	case RightAligned:
		return "RightAligned"
	case RightFlushed:
		return "RightFlushed"
	case HorizontalRuler:
		return "HorizontalRuler"
	case FullScreenHorizontalRuler:
		return "FullScreenHorizontalRuler"
	default:
		return "Unknown"
	}
}

// markers is checked in order; longer markers precede the shorter markers
// they would otherwise shadow (">> " before "> ", "//" before "/").
var markers = []struct {
	prefix string
	style  Style
}{
	{"<< ", LeftFlushed},
	{">> ", RightFlushed},
	{"< ", LeftAligned},
	{"| ", Centered},
	{"> ", RightAligned},
	{"//", FullScreenHorizontalRuler},
	{"/", HorizontalRuler},
}

// resolveStyle strips the alignment marker from raw and returns the
// resolved style with the remaining text. Unmarked lines default to
// LeftAligned with nothing stripped.
func resolveStyle(raw string) (Style, string) {
	for _, m := range markers {
		if len(raw) >= len(m.prefix) && raw[:len(m.prefix)] == m.prefix {
			return m.style, raw[len(m.prefix):]
		}
	}
	return LeftAligned, raw
}
