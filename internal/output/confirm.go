// Package output holds small terminal prompt helpers used outside the
// presentation loop.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ConfirmOptions configures the confirm prompt behavior.
type ConfirmOptions struct {
	// Default sets whether Y or N is assumed on a bare Enter.
	Default bool
	// HideHint hides the [y/N] hint.
	HideHint bool
}

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)

// Confirm prompts on stdout/stdin and reports whether the user agreed.
func Confirm(prompt string) bool {
	return ConfirmWithOptions(prompt, ConfirmOptions{})
}

// ConfirmWithOptions prompts with custom options.
func ConfirmWithOptions(prompt string, opts ConfirmOptions) bool {
	return ConfirmWriter(os.Stdout, os.Stdin, prompt, opts)
}

// ConfirmWriter prompts using the given writer and reader. Color is
// applied only when writing to a terminal.
func ConfirmWriter(w io.Writer, r io.Reader, prompt string, opts ConfirmOptions) bool {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
	}

	text := prompt
	if useColor {
		text = warnStyle.Render(prompt)
	}

	hint := " [y/N] "
	if opts.Default {
		hint = " [Y/n] "
	}
	if opts.HideHint {
		hint = " "
	}

	fmt.Fprint(w, text+hint)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return opts.Default
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	case "":
		return opts.Default
	default:
		return false
	}
}
