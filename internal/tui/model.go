// Package tui implements the Bubble Tea annotation screen for bitext.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/bitext/internal/core/alignment"
	"github.com/colonyops/bitext/internal/core/annotate"
	"github.com/colonyops/bitext/internal/core/config"
	"github.com/colonyops/bitext/internal/core/editor"
	"github.com/colonyops/bitext/internal/tui/components"
)

const keyCtrlC = "ctrl+c"

// UIState represents the current modal state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateShowingHelp
	stateConfirming
)

// Outcome reports how the annotation loop ended.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSaved
	OutcomeDiscarded
)

// ErrNoEditor is shown when retokenizing without an editor configured.
var ErrNoEditor = errors.New("no editor configured")

// editorFinishedMsg is sent when the external editor exits.
type editorFinishedMsg struct {
	side    alignment.Side
	scratch *editor.Scratch
	err     error
}

// Options configures the TUI.
type Options struct {
	Keys   KeyMap
	Editor *editor.Editor
	Title  string
	Labels [2]string // per-side labels, usually language codes
	Build  BuildInfo
	Logger zerolog.Logger
}

// Model is the main Bubble Tea model for the annotation screen.
type Model struct {
	session *annotate.Session
	keys    KeyMap
	editor  *editor.Editor
	title   string
	labels  [2]string
	build   BuildInfo
	log     zerolog.Logger

	width  int
	height int
	state  UIState

	help    *components.HelpDialog
	confirm components.ConfirmModal

	notice  string
	err     error
	dirty   bool
	outcome Outcome
}

// New creates a new annotation model around sess.
func New(sess *annotate.Session, opts Options) Model {
	keys := opts.Keys
	if keys.keybindings == nil {
		keys = NewKeyMap(nil)
	}
	labels := opts.Labels
	for i, def := range [2]string{"A", "B"} {
		if labels[i] == "" {
			labels[i] = def
		}
	}

	return Model{
		session: sess,
		keys:    keys,
		editor:  opts.Editor,
		title:   opts.Title,
		labels:  labels,
		build:   opts.Build,
		log:     opts.Logger,
	}
}

// Session returns the annotated session.
func (m Model) Session() *annotate.Session { return m.session }

// Outcome reports how the loop ended.
func (m Model) Outcome() Outcome { return m.outcome }

// Dirty reports whether the mapping or tokens changed since the loop started.
func (m Model) Dirty() bool { return m.dirty }

// Init initializes the model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.session.SetWidth(m.paneWidth())
		return m, nil
	case editorFinishedMsg:
		return m.handleEditorFinished(msg)
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch m.state {
	case stateShowingHelp:
		return m.handleHelpDialogKey(keyStr)
	case stateConfirming:
		return m.handleConfirmModalKey(msg)
	}

	return m.handleNormalKey(keyStr)
}

func (m Model) handleHelpDialogKey(keyStr string) (tea.Model, tea.Cmd) {
	kb, _ := m.keys.Resolve(keyStr)
	switch {
	case keyStr == "esc", kb.Action == config.ActionHelp:
		m.state = stateNormal
		m.help = nil
	case keyStr == keyCtrlC:
		return m.discard()
	}
	return m, nil
}

func (m Model) handleConfirmModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	m.confirm, _ = m.confirm.Update(msg)
	switch {
	case m.confirm.Confirmed():
		m.outcome = OutcomeDiscarded
		return m, tea.Quit
	case m.confirm.Cancelled():
		m.state = stateNormal
	}
	return m, nil
}

func (m Model) handleNormalKey(keyStr string) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.err = nil

	kb, ok := m.keys.Resolve(keyStr)
	if !ok {
		if keyStr == keyCtrlC {
			return m.discard()
		}
		return m, nil
	}

	switch kb.Action {
	case config.ActionDiscard:
		return m.discard()
	case config.ActionHelp:
		return m.showHelpDialog()
	case config.ActionRetokenize:
		return m.openEditor()
	}

	action, err := annotate.ParseAction(kb.Action)
	if err != nil {
		m.log.Warn().Str("key", keyStr).Str("action", kb.Action).Msg("keybinding has unknown action")
		return m, nil
	}

	before := len(m.session.Entries())
	if m.session.Apply(action) {
		m.outcome = OutcomeSaved
		return m, tea.Quit
	}
	if len(m.session.Entries()) != before {
		m.dirty = true
	}
	return m, nil
}

// discard quits without saving, asking first when there are changes.
func (m Model) discard() (tea.Model, tea.Cmd) {
	if m.dirty && m.state != stateConfirming {
		m.state = stateConfirming
		detail := "token edits will be lost"
		if n := len(m.session.Entries()); n > 0 {
			detail = fmt.Sprintf("%d committed %s will be lost", n, plural(n, "entry", "entries"))
		}
		m.confirm = components.NewConfirmModal("Discard alignment changes?", detail)
		return m, nil
	}
	m.outcome = OutcomeDiscarded
	return m, tea.Quit
}

func (m Model) showHelpDialog() (tea.Model, tea.Cmd) {
	title := "Keys"
	if m.build.Version != "" {
		title = fmt.Sprintf("Keys (bitext %s)", m.build.Version)
	}
	help, err := components.NewHelpDialog(title, m.keys.Markdown(), m.viewWidth())
	if err != nil {
		m.err = err
		return m, nil
	}
	m.help = help
	m.state = stateShowingHelp
	return m, nil
}

// openEditor suspends the TUI and edits the focused sentence's tokens.
func (m Model) openEditor() (tea.Model, tea.Cmd) {
	if m.editor == nil {
		m.err = ErrNoEditor
		return m, nil
	}

	side := m.session.Side()
	scratch, err := m.editor.Prepare(context.Background(), m.session.Text(side))
	if err != nil {
		m.err = err
		return m, nil
	}

	return m, tea.ExecProcess(scratch.Cmd, func(err error) tea.Msg {
		return editorFinishedMsg{side: side, scratch: scratch, err: err}
	})
}

func (m Model) handleEditorFinished(msg editorFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		msg.scratch.Close()
		m.err = fmt.Errorf("editor: %w", msg.err)
		return m, nil
	}

	had := len(m.session.Entries()) > 0
	changed, err := m.session.Retokenize(context.Background(), msg.side, func(context.Context, string) (string, error) {
		return msg.scratch.Result()
	})
	switch {
	case err != nil:
		m.err = err
	case changed:
		m.dirty = true
		m.notice = "tokens updated"
		if had {
			m.notice += ", alignment cleared"
		}
	default:
		m.notice = "tokens unchanged"
	}
	return m, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
