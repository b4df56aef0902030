// Package term probes the terminal the presentation runs in: size,
// interactivity, and color support.
package term

import (
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Fallback geometry when nothing can be probed (no TTY, empty env).
const (
	DefaultWidth  = 80
	DefaultHeight = 25
)

// Size reports the terminal dimensions in columns and rows. It prefers the
// live TTY size, falls back to $COLUMNS/$LINES, then to the 80x25 default.
// Synchronous by design: callers probe once at construction and once per
// explicit reload.
func Size(f *os.File) (width, height int) {
	if f != nil {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	width = envInt("COLUMNS", DefaultWidth)
	height = envInt("LINES", DefaultHeight)
	return width, height
}

// IsInteractive reports whether both stdin and stdout are TTYs, guarding
// prompts that would block automated runs.
func IsInteractive() bool {
	return (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) &&
		(isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
}

// ColorEnabled reports whether ANSI color output makes sense for stdout.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
