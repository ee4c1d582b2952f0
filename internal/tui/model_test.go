package tui

import (
	"os"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/bitext/internal/core/alignment"
	"github.com/colonyops/bitext/internal/core/annotate"
	"github.com/colonyops/bitext/internal/core/editor"
	"github.com/colonyops/bitext/pkg/executil"
	"github.com/colonyops/bitext/pkg/tuitest"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	sess := annotate.New(
		[]string{"Le", "chat", "mange"},
		[]string{"The", "cat", "eats"},
		nil,
	)
	m := New(sess, Options{Title: "sentence 1", Labels: [2]string{"fr", "en"}})
	return send(t, m, tuitest.WindowSize(80, 24))
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func commitFirstPair(t *testing.T, m Model) Model {
	t.Helper()
	return send(t, m, tuitest.KeySpace(), tuitest.KeyTab(), tuitest.KeySpace(), tuitest.KeyEnter())
}

func TestModel_WindowSizeSetsSessionWidth(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 76, m.Session().Width())

	m = send(t, m, tuitest.WindowSize(2, 10))
	assert.Equal(t, 1, m.Session().Width())
}

func TestModel_CommitMarksDirty(t *testing.T) {
	m := newTestModel(t)
	assert.False(t, m.Dirty())

	m = commitFirstPair(t, m)

	require.Len(t, m.Session().Entries(), 1)
	assert.Equal(t, [][2][]string{{{"Le"}, {"The"}}}, m.Session().EntryTexts())
	assert.True(t, m.Dirty())

	view := tuitest.StripANSI(m.content())
	assert.Contains(t, view, "Le→The")
	assert.Contains(t, view, "modified")
}

func TestModel_MovementIsNotDirty(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, tuitest.KeyRight(), tuitest.KeyPress('l'), tuitest.KeyShiftRight())

	assert.False(t, m.Dirty())
	assert.Equal(t, 2, m.Session().Active(alignment.SideA))
}

func TestModel_QuitSaves(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(tuitest.KeyPress('q'))
	m = next.(Model)

	require.NotNil(t, cmd)
	assert.Equal(t, OutcomeSaved, m.Outcome())
}

func TestModel_DiscardClean(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(tuitest.KeyCtrlC())
	m = next.(Model)

	require.NotNil(t, cmd)
	assert.Equal(t, OutcomeDiscarded, m.Outcome())
}

func TestModel_DiscardDirtyAsksFirst(t *testing.T) {
	m := commitFirstPair(t, newTestModel(t))

	m = send(t, m, tuitest.KeyCtrlC())
	assert.Equal(t, stateConfirming, m.state)
	assert.Equal(t, OutcomePending, m.Outcome())
	view := tuitest.StripANSI(m.content())
	assert.Contains(t, view, "Discard alignment changes?")
	assert.Contains(t, view, "1 committed entry will be lost")

	m = send(t, m, tuitest.KeyPress('n'))
	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, OutcomePending, m.Outcome())

	m = send(t, m, tuitest.KeyCtrlC())
	next, cmd := m.Update(tuitest.KeyPress('y'))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, OutcomeDiscarded, m.Outcome())
}

func TestModel_HelpDialog(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, tuitest.KeyPress('?'))
	require.Equal(t, stateShowingHelp, m.state)
	view := tuitest.StripANSI(m.content())
	assert.Contains(t, view, "Keys")
	assert.Contains(t, view, "commit selection")

	// Keys other than close are swallowed while help is open.
	m = send(t, m, tuitest.KeySpace())
	assert.Empty(t, m.Session().Selected(alignment.SideA))

	m = send(t, m, tuitest.KeyEsc())
	assert.Equal(t, stateNormal, m.state)
}

func TestModel_RetokenizeWithoutEditor(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(tuitest.KeyPress('e'))
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.ErrorIs(t, m.err, ErrNoEditor)
	assert.Contains(t, tuitest.StripANSI(m.content()), "no editor configured")

	m = send(t, m, tuitest.KeyRight())
	assert.NoError(t, m.err, "errors clear on the next key")
}

func TestModel_EditorFinished(t *testing.T) {
	ed := editor.New("true", &executil.RecordingExecutor{})

	tests := []struct {
		name       string
		edited     string
		err        error
		wantTokens []string
		wantNotice string
		wantDirty  bool
	}{
		{
			name:       "changed",
			edited:     "Le chat  mange bien\n",
			wantTokens: []string{"Le", "chat", "mange", "bien"},
			wantNotice: "tokens updated, alignment cleared",
			wantDirty:  true,
		},
		{
			name:       "unchanged",
			edited:     "Le chat mange\n",
			wantTokens: []string{"Le", "chat", "mange"},
			wantNotice: "tokens unchanged",
			wantDirty:  true, // from the commit
		},
		{
			name:       "editor failed",
			err:        assert.AnError,
			wantTokens: []string{"Le", "chat", "mange"},
			wantDirty:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := commitFirstPair(t, newTestModel(t))
			m = send(t, m, tuitest.KeyTab()) // focus A again

			scratch, err := ed.Prepare(t.Context(), m.Session().Text(alignment.SideA))
			require.NoError(t, err)
			if tt.edited != "" {
				require.NoError(t, os.WriteFile(scratch.Path, []byte(tt.edited), 0o600))
			}

			m = send(t, m, editorFinishedMsg{side: alignment.SideA, scratch: scratch, err: tt.err})

			var texts []string
			for _, tok := range m.Session().Tokens(alignment.SideA) {
				texts = append(texts, tok.Text)
			}
			assert.Equal(t, tt.wantTokens, texts)
			assert.Equal(t, tt.wantNotice, m.notice)
			assert.Equal(t, tt.wantDirty, m.Dirty())
			if tt.err != nil {
				assert.ErrorIs(t, m.err, assert.AnError)
			}

			_, statErr := os.Stat(scratch.Path)
			assert.True(t, os.IsNotExist(statErr), "scratch file is removed")
		})
	}
}

func TestModel_ViewShowsBothSides(t *testing.T) {
	m := newTestModel(t)
	assert.True(t, m.View().AltScreen)

	view := tuitest.StripANSI(m.content())
	assert.Contains(t, view, "sentence 1")
	assert.Contains(t, view, "fr ↔ en")
	assert.Contains(t, view, "A fr")
	assert.Contains(t, view, "B en")
	assert.Contains(t, view, "Le chat mange")
	assert.Contains(t, view, "The cat eats")
	assert.Contains(t, view, "A*: ∅  B: ∅")
	assert.Contains(t, view, "space toggle select")
}
