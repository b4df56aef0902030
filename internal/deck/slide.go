// Package deck holds the slide model and the navigation state machine that
// moves a cursor through builds and slides with saturating bounds.
package deck

import (
	"fmt"

	"github.com/declaim/declaim/internal/markup"
)

// Slide is an immutable block of parsed lines with its progressive-reveal
// boundaries and the code captured per build. boundaries[i] is the number of
// leading lines visible at build i; the last boundary covers every line.
type Slide struct {
	lines      []markup.Line
	boundaries []int
	snippets   []string
	maxLength  int
}

// NewSlide validates the build boundaries and computes the slide's maximum
// visible line length once. A slide must have at least one line; the script
// parser coerces empty slides to a single blank line before calling.
func NewSlide(lines []markup.Line, boundaries []int, snippets []string) (Slide, error) {
	if len(lines) == 0 {
		return Slide{}, fmt.Errorf("slide has no lines")
	}
	if len(boundaries) == 0 {
		return Slide{}, fmt.Errorf("slide has no builds")
	}
	prev := 0
	for i, b := range boundaries {
		if b < prev {
			return Slide{}, fmt.Errorf("build boundary %d decreases: %d after %d", i, b, prev)
		}
		prev = b
	}
	if last := boundaries[len(boundaries)-1]; last != len(lines) {
		return Slide{}, fmt.Errorf("last build boundary %d does not cover %d lines", last, len(lines))
	}

	maxLength := 0
	for _, l := range lines {
		if l.VisibleLength > maxLength {
			maxLength = l.VisibleLength
		}
	}

	return Slide{
		lines:      lines,
		boundaries: boundaries,
		snippets:   snippets,
		maxLength:  maxLength,
	}, nil
}

// Builds reports how many reveal steps the slide has (always at least one).
func (s Slide) Builds() int { return len(s.boundaries) }

// LastBuild is the index of the slide's final build.
func (s Slide) LastBuild() int { return len(s.boundaries) - 1 }

// MaxLength is the largest visible line length on the slide.
func (s Slide) MaxLength() int { return s.maxLength }

// Lines reports the slide's total line count.
func (s Slide) Lines() int { return len(s.lines) }

// Snippet returns the executable source recorded for build n, empty when
// the build captured none.
func (s Slide) Snippet(n int) string {
	if n < 0 || n >= len(s.snippets) {
		return ""
	}
	return s.snippets[n]
}

// Build is one renderable snapshot of a slide: the lines visible at a reveal
// step plus the chrome the frame renderer needs. It is a view; it holds no
// state of its own and goes stale when the deck is rebuilt.
type Build struct {
	Lines      []markup.Line
	TotalLines int
	MaxLength  int

	Header    markup.Line
	Footer    markup.Line
	HasHeader bool
	HasFooter bool

	SlideIndex int
	SlideCount int
	BuildIndex int
}

// snapshot returns the build view for reveal step n, or false when n is out
// of range.
func (s Slide) snapshot(n int) (Build, bool) {
	if n < 0 || n >= len(s.boundaries) {
		return Build{}, false
	}
	return Build{
		Lines:      s.lines[:s.boundaries[n]],
		TotalLines: len(s.lines),
		MaxLength:  s.maxLength,
		BuildIndex: n,
	}, true
}
