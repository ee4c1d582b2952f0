package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/colonyops/bitext/internal/core/styles"
)

// ConfirmModal asks a yes/no question before a destructive action. Only y
// and ctrl+c confirm; enter is ignored so a stray keypress cannot discard work.
type ConfirmModal struct {
	question string
	detail   string
	answered bool
	yes      bool
}

// NewConfirmModal creates a modal asking question. detail, when non-empty, is
// shown below it in a muted style.
func NewConfirmModal(question, detail string) ConfirmModal {
	return ConfirmModal{question: question, detail: detail}
}

// Update records the answer carried by a key press.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.answered {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "ctrl+c":
		m.answered, m.yes = true, true
	case "n", "N", "esc", "q":
		m.answered = true
	}
	return m, nil
}

// View renders the modal box.
func (m ConfirmModal) View() string {
	lines := []string{styles.ModalTitleStyle.Render(m.question)}
	if m.detail != "" {
		lines = append(lines, styles.TextMutedStyle.Render(m.detail))
	}
	lines = append(lines, "", styles.TextPrimaryStyle.Render("y discard • n keep editing"))
	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Confirmed reports a yes answer.
func (m ConfirmModal) Confirmed() bool { return m.answered && m.yes }

// Cancelled reports a no answer.
func (m ConfirmModal) Cancelled() bool { return m.answered && !m.yes }
