// Package render turns parsed lines into padded terminal strings and
// composes whole screen frames around a build snapshot.
package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/declaim/declaim/internal/markup"
)

// defaultRulerPattern fills rulers whose line carries no pattern of its own.
const defaultRulerPattern = "-"

// Render pads line to fill horizontalSpace columns according to its style.
// margin is the slide-wide slack (horizontalSpace minus the slide's longest
// visible line), computed once per slide by the caller; Centered and the
// rulers derive their own margin and ignore it.
func Render(line markup.Line, margin, horizontalSpace int) string {
	switch line.Style {
	case markup.LeftFlushed:
		return line.Content + pad(horizontalSpace-line.VisibleLength)
	case markup.RightFlushed:
		return pad(horizontalSpace-line.VisibleLength) + line.Content
	case markup.RightAligned:
		right := (margin + 1) / 2
		left := horizontalSpace - line.VisibleLength - right
		return pad(left) + line.Content + pad(right)
	case markup.Centered:
		own := horizontalSpace - line.VisibleLength
		left := own / 2
		return pad(left) + line.Content + pad(own-left)
	case markup.HorizontalRuler:
		return ruler(line, horizontalSpace-margin, horizontalSpace)
	case markup.FullScreenHorizontalRuler:
		return ruler(line, horizontalSpace, horizontalSpace)
	default: // markup.LeftAligned
		left := margin / 2
		right := horizontalSpace - line.VisibleLength - left
		return pad(left) + line.Content + pad(right)
	}
}

// ruler tiles the line's pattern across width display columns and pads the
// result into horizontalSpace like a left-aligned line. The trailing partial
// repeat is cut by display column without splitting an ANSI sequence or a
// multi-unit codepoint, and re-terminated if the cut ran through styled text.
func ruler(line markup.Line, width, horizontalSpace int) string {
	if width <= 0 {
		return pad(horizontalSpace)
	}

	pattern := line.Content
	patternWidth := ansi.StringWidth(pattern)
	if patternWidth <= 0 {
		pattern = defaultRulerPattern
		patternWidth = 1
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(pattern, width/patternWidth))
	if rem := width % patternWidth; rem > 0 {
		part := ansi.Truncate(pattern, rem, "")
		b.WriteString(part)
		if strings.ContainsRune(part, '\x1b') {
			b.WriteString(markup.Reset)
		}
	}

	slack := horizontalSpace - width
	left := slack / 2
	return pad(left) + b.String() + pad(slack-left)
}

// pad produces n space columns, clamping negative widths to zero so overlong
// lines never panic the renderer.
func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
