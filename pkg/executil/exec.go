// Package executil provides process execution utilities.
package executil

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Stdio holds the streams attached to a child process. Nil fields leave the
// corresponding stream unattached.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Terminal returns the current process's standard streams, for interactive
// children such as editors.
func Terminal() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Executor runs external commands.
type Executor interface {
	// RunStream executes a command with the given streams attached and waits
	// for it to exit.
	RunStream(ctx context.Context, stdio Stdio, cmd string, args ...string) error
}

// RealExecutor calls actual commands.
type RealExecutor struct{}

// Command builds an *exec.Cmd with stdio attached, for callers that need to
// hand the process to something else to run.
func (e *RealExecutor) Command(ctx context.Context, stdio Stdio, cmd string, args ...string) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd, args...)
	c.Stdin = stdio.In
	c.Stdout = stdio.Out
	c.Stderr = stdio.Err
	return c
}

// RunStream executes a command and streams stdin/stdout/stderr.
func (e *RealExecutor) RunStream(ctx context.Context, stdio Stdio, cmd string, args ...string) error {
	if err := e.Command(ctx, stdio, cmd, args...).Run(); err != nil {
		return fmt.Errorf("exec %s: %w", cmd, err)
	}
	return nil
}
