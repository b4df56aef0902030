package markup

import (
	"strings"
	"testing"

	"github.com/declaim/declaim/internal/emoji"
)

func TestParseLineMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		wantStyle   Style
		wantContent string
	}{
		{"left flushed", "<< flushed", LeftFlushed, "flushed"},
		{"left aligned marker", "< aligned", LeftAligned, "aligned"},
		{"centered", "| middle", Centered, "middle"},
		{"right aligned", "> right", RightAligned, "right"},
		{"right flushed", ">> far right", RightFlushed, "far right"},
		{"ruler", "/", HorizontalRuler, ""},
		{"ruler with pattern", "/=~", HorizontalRuler, "=~"},
		{"full screen ruler", "//", FullScreenHorizontalRuler, ""},
		{"full screen ruler with pattern", "//*", FullScreenHorizontalRuler, "*"},
		{"no marker defaults left aligned", "plain text", LeftAligned, "plain text"},
		{"marker without delimiter is content", ">no space", LeftAligned, ">no space"},
		{"double marker needs its own space", ">> ", RightFlushed, ""},
		{"empty line", "", LeftAligned, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseLine(tt.raw, nil)
			if got.Style != tt.wantStyle {
				t.Errorf("ParseLine(%q).Style = %v, want %v", tt.raw, got.Style, tt.wantStyle)
			}
			if got.Content != tt.wantContent {
				t.Errorf("ParseLine(%q).Content = %q, want %q", tt.raw, got.Content, tt.wantContent)
			}
		})
	}
}

func TestParseLineVisibleLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"plain ascii", "hello", 5},
		{"marker stripped", "| hello", 5},
		{"color escape drops two", `\ghello`, 5},
		{"reset escape drops two", `\ghello\s`, 5},
		{"multiple escapes", `\r>\s \g=\s`, 3},
		{"literal backslash drops one", `a\\b`, 3},
		{"unknown escape drops one", `a\qb`, 3},
		{"multibyte runes count once", "héllo wörld", 11},
		{"wide runes count two cells", "日本語", 6},
		{"only escapes", `\b\s`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseLine(tt.raw, nil)
			if got.VisibleLength != tt.want {
				t.Errorf("ParseLine(%q).VisibleLength = %d, want %d", tt.raw, got.VisibleLength, tt.want)
			}
		})
	}
}

func TestParseLineEscapes(t *testing.T) {
	t.Parallel()

	t.Run("recognized escape expands and appends reset", func(t *testing.T) {
		t.Parallel()
		got := ParseLine(`\gok`, nil)
		if want := "\x1b[32mok" + Reset; got.Content != want {
			t.Errorf("Content = %q, want %q", got.Content, want)
		}
	})

	t.Run("reset appended once for many escapes", func(t *testing.T) {
		t.Parallel()
		got := ParseLine(`\ra\gb\bc`, nil)
		if n := strings.Count(got.Content, Reset); n != 1 {
			t.Errorf("reset count = %d, want 1 in %q", n, got.Content)
		}
	})

	t.Run("literal backslash survives without reset", func(t *testing.T) {
		t.Parallel()
		got := ParseLine(`C:\\temp`, nil)
		if want := `C:\temp`; got.Content != want {
			t.Errorf("Content = %q, want %q", got.Content, want)
		}
	})

	t.Run("unknown escape passes character through", func(t *testing.T) {
		t.Parallel()
		got := ParseLine(`\q`, nil)
		if got.Content != "q" {
			t.Errorf("Content = %q, want %q", got.Content, "q")
		}
	})

	t.Run("trailing lone backslash is kept", func(t *testing.T) {
		t.Parallel()
		got := ParseLine(`end\`, nil)
		if got.Content != `end\` {
			t.Errorf("Content = %q, want %q", got.Content, `end\`)
		}
		if got.VisibleLength != 4 {
			t.Errorf("VisibleLength = %d, want 4", got.VisibleLength)
		}
	})

	t.Run("background and attribute escapes expand", func(t *testing.T) {
		t.Parallel()
		got := ParseLine(`\Y\*warn`, nil)
		if !strings.Contains(got.Content, "\x1b[43m") || !strings.Contains(got.Content, "\x1b[1m") {
			t.Errorf("Content = %q, want background and bold sequences", got.Content)
		}
		if got.VisibleLength != 4 {
			t.Errorf("VisibleLength = %d, want 4", got.VisibleLength)
		}
	})
}

func TestParseLineEmoji(t *testing.T) {
	t.Parallel()

	table := emoji.Table{"smile": "😄", "+1": "👍"}

	tests := []struct {
		name        string
		raw         string
		wantContent string
		wantVisible int
	}{
		{"known code collapses to glyph", "hi :smile:", "hi 😄", 4},
		{"punctuation names work", "ship it :+1:", "ship it 👍", 9},
		{"unknown code passes through", "hi :nope:", "hi :nope:", 9},
		{"nil table passes through", "x :smile:", "x :smile:", 9},
		{"two codes", ":smile::smile:", "😄😄", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tbl := table
			if tt.name == "nil table passes through" {
				tbl = nil
			}
			got := ParseLine(tt.raw, tbl)
			if got.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", got.Content, tt.wantContent)
			}
			if got.VisibleLength != tt.wantVisible {
				t.Errorf("VisibleLength = %d, want %d", got.VisibleLength, tt.wantVisible)
			}
		})
	}
}

func TestBlank(t *testing.T) {
	t.Parallel()

	b := Blank()
	if b.Content != "" || b.VisibleLength != 0 || b.Style != LeftAligned {
		t.Errorf("Blank() = %+v, want empty LeftAligned line", b)
	}
}
