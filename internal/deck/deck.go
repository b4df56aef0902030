package deck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/declaim/declaim/internal/emoji"
	"github.com/declaim/declaim/internal/markup"
)

// RunCode failure conditions. Both are user-facing, non-fatal, and leave the
// cursor untouched.
var (
	ErrNoREPL = errors.New("no interpreter attached; configure one to run code")
	ErrNoCode = errors.New("no code recorded for this build")
)

// CodeRunner hands a captured snippet to an interpreter. Implemented by
// repl.Process; defined here so the deck depends only on the behavior.
type CodeRunner interface {
	Run(ctx context.Context, snippet string) error
}

// Chrome configures the header and footer lines stamped onto every build
// snapshot. Title and Author may carry markup escapes and emoji codes.
type Chrome struct {
	Title       string
	Author      string
	ShowDate    bool
	DateFormat  string
	ShowCounter bool

	// Width is the horizontal space footer padding arithmetic targets;
	// refreshed by SetWidth when the terminal is resized.
	Width int

	// Now is the footer clock; defaults to time.Now.
	Now func() time.Time

	// Emoji resolves shortcodes in the title and author.
	Emoji emoji.Table
}

// Deck owns the ordered slides and the (slideCursor, buildCursor) position.
// slideCursor ranges over [-1, len(slides)]: both out-of-range values are
// valid parked positions where Current returns nothing. All navigation is
// total; moving past an edge parks the cursor instead of failing.
type Deck struct {
	slides      []Slide
	slideCursor int
	buildCursor int
	chrome      Chrome
}

// New creates a deck parked before its first slide.
func New(slides []Slide, chrome Chrome) *Deck {
	if chrome.Now == nil {
		chrome.Now = time.Now
	}
	if chrome.DateFormat == "" {
		chrome.DateFormat = "Jan 2 2006"
	}
	return &Deck{slides: slides, slideCursor: -1, chrome: chrome}
}

// SlideCount reports the number of slides.
func (d *Deck) SlideCount() int { return len(d.slides) }

// Cursor exposes the current position for persistence and progress display.
func (d *Deck) Cursor() (slide, build int) { return d.slideCursor, d.buildCursor }

// SetWidth updates the horizontal space the footer is padded against.
func (d *Deck) SetWidth(w int) { d.chrome.Width = w }

// JumpTo clamps n to [-1, len(slides)], resets the build cursor, and returns
// the first build of the target slide. Parked positions return false.
// Clamping keeps repeated out-of-range jumps from drifting the cursor.
func (d *Deck) JumpTo(n int) (Build, bool) {
	if n < -1 {
		n = -1
	}
	if n > len(d.slides) {
		n = len(d.slides)
	}
	d.slideCursor = n
	d.buildCursor = 0
	return d.sel(0)
}

// Jump moves delta slides relative to the current position.
func (d *Deck) Jump(delta int) (Build, bool) {
	return d.JumpTo(d.slideCursor + delta)
}

// NextBuild reveals the next build of the current slide, falling through to
// the first build of the next slide when the current one is exhausted.
func (d *Deck) NextBuild() (Build, bool) {
	if b, ok := d.sel(d.buildCursor + 1); ok {
		return b, true
	}
	return d.Jump(1)
}

// PreviousBuild hides the last revealed build, falling through to the final
// build of the previous slide when already at the first build.
func (d *Deck) PreviousBuild() (Build, bool) {
	if b, ok := d.sel(d.buildCursor - 1); ok {
		return b, true
	}
	if _, ok := d.Jump(-1); !ok {
		return Build{}, false
	}
	return d.sel(d.slides[d.slideCursor].LastBuild())
}

// FirstSlide jumps to the first slide.
func (d *Deck) FirstSlide() (Build, bool) { return d.JumpTo(0) }

// LastSlide jumps to the first build of the final slide.
func (d *Deck) LastSlide() (Build, bool) { return d.JumpTo(len(d.slides) - 1) }

// LastBuild lands on the final build of the final slide: it parks past the
// deck, then steps back across the boundary.
func (d *Deck) LastBuild() (Build, bool) {
	if b, ok := d.JumpTo(len(d.slides)); ok {
		return b, true
	}
	return d.PreviousBuild()
}

// Current returns the build at the cursor, or false when parked.
func (d *Deck) Current() (Build, bool) {
	return d.sel(d.buildCursor)
}

// Snippet returns the code recorded for the current build.
func (d *Deck) Snippet() (string, bool) {
	if d.slideCursor < 0 || d.slideCursor >= len(d.slides) {
		return "", false
	}
	code := d.slides[d.slideCursor].Snippet(d.buildCursor)
	return code, code != ""
}

// RunCode hands the current build's snippet to r. It reports ErrNoREPL when
// no runner is attached and ErrNoCode when the build captured nothing;
// neither moves the cursor.
func (d *Deck) RunCode(ctx context.Context, r CodeRunner) error {
	if r == nil {
		return ErrNoREPL
	}
	code, ok := d.Snippet()
	if !ok {
		return ErrNoCode
	}
	return r.Run(ctx, code)
}

// sel selects build n on the current slide. Header and footer are computed
// fresh on every selection: the footer encodes the live slide number.
func (d *Deck) sel(n int) (Build, bool) {
	if d.slideCursor < 0 || d.slideCursor >= len(d.slides) {
		return Build{}, false
	}
	b, ok := d.slides[d.slideCursor].snapshot(n)
	if !ok {
		return Build{}, false
	}
	d.buildCursor = n

	b.SlideIndex = d.slideCursor
	b.SlideCount = len(d.slides)
	b.Header, b.HasHeader = d.header()
	b.Footer, b.HasFooter = d.footer()
	return b, true
}

// header renders the title/author line, centered on its own width.
func (d *Deck) header() (markup.Line, bool) {
	text := strings.TrimSpace(strings.TrimSpace(d.chrome.Title) + "  " + strings.TrimSpace(d.chrome.Author))
	if text == "" {
		return markup.Line{}, false
	}
	return markup.ParseLine("| "+text, d.chrome.Emoji), true
}

// footer lays the date out on the left and the slide counter on the right,
// padded to the chrome width. The pad clamps to zero on narrow screens so a
// long date can never produce negative padding.
func (d *Deck) footer() (markup.Line, bool) {
	if !d.chrome.ShowDate && !d.chrome.ShowCounter {
		return markup.Line{}, false
	}

	var date, counter string
	if d.chrome.ShowDate {
		date = d.chrome.Now().Format(d.chrome.DateFormat)
	}
	if d.chrome.ShowCounter {
		counter = fmt.Sprintf("%d / %d", d.slideCursor+1, len(d.slides))
	}

	gap := d.chrome.Width - utf8.RuneCountInString(date) - utf8.RuneCountInString(counter)
	if gap < 1 && date != "" && counter != "" {
		gap = 1
	}
	if gap < 0 {
		gap = 0
	}
	return markup.ParseLine("<< "+date+strings.Repeat(" ", gap)+counter, d.chrome.Emoji), true
}
