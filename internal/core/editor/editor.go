// Package editor hands text to an external editor through a scratch file.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/bitext/internal/core/logging"
	"github.com/colonyops/bitext/pkg/executil"
	"github.com/colonyops/bitext/pkg/tmpl"
)

// Fallback is used when neither the config nor the environment names an
// editor.
const Fallback = "vi"

// Resolve picks the editor command: the configured one, then $VISUAL, then
// $EDITOR, then Fallback.
func Resolve(configured string) string {
	for _, c := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return Fallback
}

// Editor runs an editor command. Command may carry arguments, e.g.
// "code --wait"; the scratch file path is appended as the last argument.
// A command containing template actions, e.g. "nvim -c 'set tw=0' {{ .Path | shq }}",
// is rendered with the path and run through sh -c instead.
type Editor struct {
	Command string

	exec executil.Executor
	log  zerolog.Logger
}

// New returns an editor that runs command through ex.
func New(command string, ex executil.Executor) *Editor {
	if ex == nil {
		ex = &executil.RealExecutor{}
	}
	return &Editor{
		Command: command,
		exec:    ex,
		log:     logging.Component("editor"),
	}
}

// commandVars is the data available to templated editor commands.
type commandVars struct {
	Path string
}

func (e *Editor) argv(path string) (string, []string, error) {
	if tmpl.IsTemplate(e.Command) {
		line, err := tmpl.Render(e.Command, commandVars{Path: path})
		if err != nil {
			return "", nil, fmt.Errorf("editor command: %w", err)
		}
		return "sh", []string{"-c", line}, nil
	}

	fields := strings.Fields(e.Command)
	if len(fields) == 0 {
		fields = []string{Fallback}
	}
	return fields[0], append(fields[1:], path), nil
}

// Edit writes text to a scratch file, runs the editor on it attached to the
// terminal and returns the saved contents. It blocks until the editor exits.
func (e *Editor) Edit(ctx context.Context, text string) (string, error) {
	s, err := newScratch(text)
	if err != nil {
		return "", err
	}
	defer s.Close()

	name, args, err := e.argv(s.Path)
	if err != nil {
		return "", err
	}
	e.log.Debug().Str("cmd", name).Str("path", s.Path).Msg("running editor")
	if err := e.exec.RunStream(ctx, executil.Terminal(), name, args...); err != nil {
		return "", fmt.Errorf("editor: %w", err)
	}
	return s.Result()
}

// Prepare writes text to a scratch file and returns it together with an
// unstarted command that edits it. The caller runs the command, then reads
// the outcome with Scratch.Result.
func (e *Editor) Prepare(ctx context.Context, text string) (*Scratch, error) {
	s, err := newScratch(text)
	if err != nil {
		return nil, err
	}
	name, args, err := e.argv(s.Path)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Cmd = (&executil.RealExecutor{}).Command(ctx, executil.Stdio{}, name, args...)
	return s, nil
}

// Scratch is a temporary file holding text under edit.
type Scratch struct {
	Path string
	Cmd  *exec.Cmd
}

func newScratch(text string) (*Scratch, error) {
	f, err := os.CreateTemp("", "bitext-*.txt")
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(text + "\n"); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write scratch file: %w", err)
	}
	return &Scratch{Path: f.Name()}, nil
}

// Result reads the edited text and removes the scratch file.
func (s *Scratch) Result() (string, error) {
	defer s.Close()
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("read scratch file: %w", err)
	}
	return string(data), nil
}

// Close removes the scratch file. It is safe to call more than once.
func (s *Scratch) Close() {
	_ = os.Remove(s.Path)
}
