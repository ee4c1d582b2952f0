package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Cmd  string
	Args []string
}

// RecordingExecutor captures commands for testing.
// Configure Effects and Errors maps to control behavior.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Effects maps command names to a function run in place of the command.
	// It receives the arguments, letting tests mimic a program that edits a
	// file.
	Effects map[string]func(args []string) error

	// Errors maps command names to their error.
	Errors map[string]error
}

// RunStream records the command and applies any configured effect or error.
func (e *RecordingExecutor) RunStream(_ context.Context, _ Stdio, cmd string, args ...string) error {
	e.mu.Lock()
	e.Commands = append(e.Commands, RecordedCommand{Cmd: cmd, Args: args})
	effect := e.Effects[cmd]
	err := e.Errors[cmd]
	e.mu.Unlock()

	if err != nil {
		return err
	}
	if effect != nil {
		return effect(args)
	}
	return nil
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
