package script

import (
	"strings"
	"testing"

	"github.com/declaim/declaim/internal/deck"
	"github.com/declaim/declaim/internal/markup"
)

func parse(t *testing.T, input string, opts ...Option) []deck.Slide {
	t.Helper()
	p := NewParser(nil, opts...)
	slides, err := p.Parse(strings.Split(input, "\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return slides
}

func firstBuild(t *testing.T, s deck.Slide) deck.Build {
	t.Helper()
	d := deck.New([]deck.Slide{s}, deck.Chrome{})
	b, ok := d.JumpTo(0)
	if !ok {
		t.Fatal("JumpTo(0) failed")
	}
	return b
}

func TestParseSlideSeparation(t *testing.T) {
	t.Parallel()

	slides := parse(t, "Hello\n---\n| World\n---\nBye")

	if len(slides) != 3 {
		t.Fatalf("got %d slides, want 3", len(slides))
	}

	b := firstBuild(t, slides[1])
	if len(b.Lines) != 1 {
		t.Fatalf("slide 2 has %d lines, want 1", len(b.Lines))
	}
	if b.Lines[0].Style != markup.Centered {
		t.Errorf("slide 2 line style = %v, want Centered", b.Lines[0].Style)
	}
	if b.Lines[0].Content != "World" {
		t.Errorf("slide 2 line content = %q, want %q", b.Lines[0].Content, "World")
	}
}

func TestParseBuildSeparators(t *testing.T) {
	t.Parallel()

	slides := parse(t, "one\n--\ntwo\n--\nthree")
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}

	s := slides[0]
	if s.Builds() != 3 {
		t.Fatalf("Builds() = %d, want 3", s.Builds())
	}

	d := deck.New([]deck.Slide{s}, deck.Chrome{})
	b, _ := d.JumpTo(0)
	if len(b.Lines) != 1 || b.TotalLines != 3 {
		t.Errorf("build 0 shows %d of %d lines, want 1 of 3", len(b.Lines), b.TotalLines)
	}
	b, _ = d.NextBuild()
	if len(b.Lines) != 2 {
		t.Errorf("build 1 shows %d lines, want 2", len(b.Lines))
	}
	b, _ = d.NextBuild()
	if len(b.Lines) != 3 {
		t.Errorf("build 2 shows %d lines, want 3", len(b.Lines))
	}
}

func TestParseEmptySlideCoercedToBlankLine(t *testing.T) {
	t.Parallel()

	slides := parse(t, "a\n---\n---\nb")
	if len(slides) != 3 {
		t.Fatalf("got %d slides, want 3", len(slides))
	}

	b := firstBuild(t, slides[1])
	if len(b.Lines) != 1 || b.Lines[0].VisibleLength != 0 {
		t.Errorf("coerced slide = %+v, want a single blank line", b.Lines)
	}
}

func TestParseTrailingSeparatorAddsNoSlide(t *testing.T) {
	t.Parallel()

	slides := parse(t, "a\n---")
	if len(slides) != 1 {
		t.Errorf("got %d slides, want 1", len(slides))
	}
}

func TestParseCodeCapture(t *testing.T) {
	t.Parallel()

	slides := parse(t, "```\nval x = 1\n```")
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}
	s := slides[0]

	if got := s.Snippet(s.LastBuild()); got != "val x = 1" {
		t.Errorf("Snippet = %q, want %q", got, "val x = 1")
	}

	b := firstBuild(t, s)
	if len(b.Lines) != 1 {
		t.Fatalf("got %d display lines, want 1", len(b.Lines))
	}
	line := b.Lines[0]
	// Line-number token: a styled "1" before the code text.
	if !strings.HasPrefix(line.Content, "\x1b[34m1\x1b[0m ") {
		t.Errorf("code line = %q, want line-number token prefix", line.Content)
	}
	if !strings.Contains(line.Content, "val") {
		t.Errorf("code line = %q, want the code text", line.Content)
	}
	// "1 val x = 1" is 11 visible codepoints; escapes count zero.
	if line.VisibleLength != 11 {
		t.Errorf("VisibleLength = %d, want 11", line.VisibleLength)
	}
}

func TestParseCodeCaptureWithoutLineNumbers(t *testing.T) {
	t.Parallel()

	slides := parse(t, "```\nval x = 1\n```", WithLineNumbers(false))
	b := firstBuild(t, slides[0])
	if strings.HasPrefix(b.Lines[0].Content, "\x1b[34m1") {
		t.Errorf("code line = %q, want no line-number token", b.Lines[0].Content)
	}
}

func TestParseLineNumberTokenPadsToSlideWidth(t *testing.T) {
	t.Parallel()

	var input strings.Builder
	input.WriteString("```\n")
	for i := 0; i < 10; i++ {
		input.WriteString("x\n")
	}
	input.WriteString("```")

	slides := parse(t, input.String())
	b := firstBuild(t, slides[0])
	if len(b.Lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(b.Lines))
	}
	// Single-digit numbers get padded to the two-column width of line 10.
	if !strings.HasPrefix(b.Lines[0].Content, "\x1b[34m 1\x1b[0m") {
		t.Errorf("line 1 = %q, want space-padded number token", b.Lines[0].Content)
	}
	if !strings.HasPrefix(b.Lines[9].Content, "\x1b[34m10\x1b[0m") {
		t.Errorf("line 10 = %q, want two-digit number token", b.Lines[9].Content)
	}
	if b.Lines[0].VisibleLength != b.Lines[9].VisibleLength {
		t.Errorf("padded code lines differ in visible length: %d vs %d",
			b.Lines[0].VisibleLength, b.Lines[9].VisibleLength)
	}
}

func TestParseNoExecDisplaysWithoutRetaining(t *testing.T) {
	t.Parallel()

	slides := parse(t, "```noexec\nrm -rf /\n```")
	s := slides[0]

	if got := s.Snippet(s.LastBuild()); got != "" {
		t.Errorf("Snippet = %q, want nothing retained", got)
	}
	b := firstBuild(t, s)
	if len(b.Lines) != 1 {
		t.Errorf("got %d display lines, want 1", len(b.Lines))
	}
}

func TestParseSilentRetainsWithoutDisplaying(t *testing.T) {
	t.Parallel()

	slides := parse(t, "visible\n```silent\nsetup()\n```")
	s := slides[0]

	if got := s.Snippet(s.LastBuild()); got != "setup()" {
		t.Errorf("Snippet = %q, want %q", got, "setup()")
	}
	b := firstBuild(t, s)
	if len(b.Lines) != 1 || b.Lines[0].Content != "visible" {
		t.Errorf("display lines = %+v, want only the visible line", b.Lines)
	}
}

func TestParseSnippetsAccumulateAcrossBuilds(t *testing.T) {
	t.Parallel()

	slides := parse(t, "```\na = 1\n```\n--\n```\nb = 2\n```")
	s := slides[0]

	if got := s.Snippet(0); got != "a = 1" {
		t.Errorf("build 0 snippet = %q, want %q", got, "a = 1")
	}
	if got := s.Snippet(1); got != "a = 1\nb = 2" {
		t.Errorf("build 1 snippet = %q, want accumulated code", got)
	}
}

func TestParseUnclosedFenceEndsAtEOF(t *testing.T) {
	t.Parallel()

	slides := parse(t, "```\nx = 1")
	s := slides[0]
	if got := s.Snippet(s.LastBuild()); got != "x = 1" {
		t.Errorf("Snippet = %q, want %q", got, "x = 1")
	}
}

func TestParseTallSlideWarns(t *testing.T) {
	t.Parallel()

	var warned string
	input := strings.Repeat("line\n", 10) + "last"
	p := NewParser(nil, WithVerticalSpace(5), WithWarnHandler(func(msg string) { warned = msg }))
	if _, err := p.Parse(strings.Split(input, "\n")); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if warned == "" {
		t.Fatal("expected a too-tall warning")
	}
	if !strings.Contains(warned, "11 lines") {
		t.Errorf("warning = %q, want the slide height", warned)
	}
}

func TestParseEmptyInputYieldsNoSlides(t *testing.T) {
	t.Parallel()

	p := NewParser(nil)
	slides, err := p.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(slides) != 0 {
		t.Errorf("got %d slides, want 0", len(slides))
	}
}
