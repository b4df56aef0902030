// Package repl hands captured code snippets to an external interpreter.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Process runs snippets by piping them to an interpreter command's stdin,
// one process per invocation. The interpreter inherits the terminal so its
// output lands in the presentation flow.
type Process struct {
	command string
	args    []string
}

// NewProcess builds a runner from a command string such as "python3 -i".
// Returns nil for an empty command: the deck then reports that no
// interpreter is attached instead of failing.
func NewProcess(command string) *Process {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	return &Process{command: fields[0], args: fields[1:]}
}

// Run executes one snippet to completion.
func (p *Process) Run(ctx context.Context, snippet string) error {
	cmd := newCommand(ctx, p.command, p.args...)
	cmd.Stdin = strings.NewReader(snippet + "\n")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Default().Debug("running snippet", "interpreter", p.command, "bytes", len(snippet))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("interpreter %s: %w", p.command, err)
	}
	return nil
}
