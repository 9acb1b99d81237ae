package pipeline

import (
	"context"
	"os"
	"os/exec"
)

// Runner executes external tools in the current working directory. The
// pipeline only cares about the exit status; tool output goes straight to
// the user.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs tools as blocking child processes.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
