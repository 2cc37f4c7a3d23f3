package calibre

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the process is
// killed, so a grandchild holding stdout open cannot stall a timeout.
const waitDelay = 2 * time.Second

// Output carries what a finished process produced.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Executor abstracts command execution for testability.
//
// Run returns a *exec.ExitError (or an error wrapping one) when the process
// ran and exited non-zero; any other error means it never started or was
// killed by ctx.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (Output, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (Output, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil && ctx.Err() != nil {
		return out, errors.Join(ctx.Err(), err)
	}
	return out, err
}
