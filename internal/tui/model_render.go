package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/bitext/internal/core/alignment"
	"github.com/colonyops/bitext/internal/core/styles"
	"github.com/colonyops/bitext/internal/tui/components"
	"github.com/colonyops/bitext/internal/tui/render"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// paneChrome is the horizontal space taken by a pane's border and padding.
	paneChrome = 4
	// screenChrome is the vertical space taken by everything but pane rows:
	// header, two labels, two borders per pane, status, preview and hint.
	screenChrome = 10
)

func (m Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) viewHeight() int {
	if m.height <= 0 {
		return defaultHeight
	}
	return m.height
}

// paneWidth is the number of token columns in each pane.
func (m Model) paneWidth() int {
	return max(1, m.viewWidth()-paneChrome)
}

// paneHeight is the number of token rows shown per pane.
func (m Model) paneHeight() int {
	return max(1, (m.viewHeight()-screenChrome)/2)
}

// View renders the TUI.
func (m Model) View() tea.View {
	v := tea.NewView(m.content())
	v.AltScreen = true
	return v
}

// content renders the screen with any open dialog on top.
func (m Model) content() string {
	mainView := m.renderMain()

	switch {
	case m.state == stateShowingHelp && m.help != nil:
		return components.Overlay(mainView, m.help.View(), m.viewWidth(), m.viewHeight())
	case m.state == stateConfirming:
		return components.Overlay(mainView, m.confirm.View(), m.viewWidth(), m.viewHeight())
	default:
		return mainView
	}
}

func (m Model) renderMain() string {
	parts := []string{m.renderHeader()}
	for _, side := range []alignment.Side{alignment.SideA, alignment.SideB} {
		parts = append(parts, m.renderPane(side))
	}
	parts = append(parts,
		m.renderStatus(),
		styles.PreviewStyle.Render(render.Preview(m.session.EntryTexts(), m.viewWidth())),
		m.renderFooter(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	title := m.title
	if title == "" {
		title = "bitext"
	}
	left := styles.TitleStyle.Render(title)
	right := styles.TextMutedStyle.Render(m.labels[0] + " ↔ " + m.labels[1])
	gap := m.viewWidth() - lipgloss.Width(left) - lipgloss.Width(right)
	return left + components.Pad(gap) + right
}

func (m Model) renderPane(side alignment.Side) string {
	focused := m.session.Side() == side

	rows := render.Pane(m.session.Tokens(side), m.session.Active(side), focused, m.paneWidth(), m.paneHeight())
	if len(rows) == 0 {
		rows = []string{styles.TextMutedStyle.Render("(empty)")}
	}
	for len(rows) < m.paneHeight() {
		rows = append(rows, "")
	}

	label := styles.SideLabelStyle.Render(side.String() + " " + m.labels[side])
	style := styles.PaneStyle
	if focused {
		style = styles.PaneFocusedStyle
	}
	body := style.Width(m.viewWidth()).Render(strings.Join(rows, "\n"))
	return label + "\n" + body
}

func (m Model) renderStatus() string {
	line := styles.StatusValueStyle.Render(render.StatusLine(m.session))
	if m.dirty {
		line += " " + styles.StatusModeStyle.Render("modified")
	}
	return line
}

func (m Model) renderFooter() string {
	switch {
	case m.err != nil:
		return styles.ErrorStyle.Render(m.err.Error())
	case m.notice != "":
		return styles.TextSuccessStyle.Render(m.notice)
	default:
		return styles.HelpStyle.Render(m.keys.Hint())
	}
}
