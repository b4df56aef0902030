// Package export captures rendered frames into a transcript and turns the
// transcript into an HTML file by piping it through an external ANSI-to-HTML
// converter command.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// ErrNoConverter is returned when WriteHTML is called without a converter
// command configured.
var ErrNoConverter = errors.New("no html converter configured")

// Transcript accumulates rendered frames in presentation order.
type Transcript struct {
	frames []string
}

// Add appends one rendered frame.
func (t *Transcript) Add(frame string) {
	t.frames = append(t.frames, frame)
}

// Len reports how many frames were captured.
func (t *Transcript) Len() int { return len(t.frames) }

// Text joins the captured frames into one ANSI document, one frame per
// page, separated by a blank line.
func (t *Transcript) Text() string {
	return strings.Join(t.frames, "\n\n")
}

// WriteHTML pipes the transcript through converter (argv form, e.g.
// ["aha", "--black"]) and writes its stdout to path.
func (t *Transcript) WriteHTML(ctx context.Context, path string, converter []string) error {
	if len(converter) == 0 {
		return ErrNoConverter
	}

	cmd := exec.CommandContext(ctx, converter[0], converter[1:]...)
	cmd.Stdin = strings.NewReader(t.Text())
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	slog.Default().Debug("exporting transcript", "converter", converter[0], "frames", len(t.frames))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("converter %s: %s: %w", converter[0], msg, err)
		}
		return fmt.Errorf("converter %s: %w", converter[0], err)
	}

	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
