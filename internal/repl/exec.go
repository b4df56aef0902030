package repl

import (
	"context"
	"os/exec"
)

// newCommand is a seam for tests that cannot spawn real interpreters.
var newCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}
