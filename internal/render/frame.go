package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/declaim/declaim/internal/deck"
	"github.com/declaim/declaim/internal/markup"
)

// DefaultBorder is the glyph framing every row when the config names none.
const DefaultBorder = "*"

// Geometry is the probed terminal size a frame is rendered into.
type Geometry struct {
	Width  int
	Height int
}

// sideOverhead is the columns eaten per row by the border glyph and the
// space inside it, on each side.
const sideOverhead = 2

// HorizontalSpace reports the columns available to slide content.
func (g Geometry) HorizontalSpace() int {
	hs := g.Width - 2*sideOverhead
	if hs < 0 {
		return 0
	}
	return hs
}

// VerticalSpace reports the rows available to slide content once borders,
// header, and footer are accounted for. Header and footer cost two rows
// each: the text row and its separator rule.
func (g Geometry) VerticalSpace(hasHeader, hasFooter bool) int {
	vs := g.Height - 2
	if hasHeader {
		vs -= 2
	}
	if hasFooter {
		vs -= 2
	}
	if vs < 0 {
		return 0
	}
	return vs
}

// RenderFrame composes one screen-sized text block for a build: borders,
// optional header and footer with separator rules, vertical centering, and
// each content line padded per its style. Pure formatting; the caller decides
// where the string goes.
func RenderFrame(b deck.Build, geo Geometry, border string) string {
	if border == "" {
		border = DefaultBorder
	}
	hs := geo.HorizontalSpace()
	rule := markup.Line{Style: markup.FullScreenHorizontalRuler}

	var rows []string
	wrap := func(row string) {
		rows = append(rows, border+" "+row+" "+border)
	}
	blank := func(n int) {
		for i := 0; i < n; i++ {
			wrap(pad(hs))
		}
	}

	horizontalBorder := strings.Repeat(border, geo.Width)
	rows = append(rows, horizontalBorder)

	if b.HasHeader {
		wrap(clampRow(Render(b.Header, hs-b.Header.VisibleLength, hs), hs))
		wrap(Render(rule, 0, hs))
	}

	vs := geo.VerticalSpace(b.HasHeader, b.HasFooter)
	padTop := (vs - b.TotalLines) / 2
	if padTop < 0 {
		padTop = 0
	}
	blank(padTop)

	margin := hs - b.MaxLength
	for _, line := range b.Lines {
		wrap(clampRow(Render(line, margin, hs), hs))
	}

	padBottom := vs - padTop - len(b.Lines)
	blank(padBottom)

	if b.HasFooter {
		wrap(Render(rule, 0, hs))
		wrap(clampRow(Render(b.Footer, hs-b.Footer.VisibleLength, hs), hs))
	}

	rows = append(rows, horizontalBorder)
	return strings.Join(rows, "\n")
}

// clampRow cuts a row that overflows the content width, preserving ANSI
// sequences across the cut.
func clampRow(row string, hs int) string {
	if ansi.StringWidth(row) <= hs {
		return row
	}
	return truncate.String(row, uint(hs))
}
