// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/colonyops/bitext/internal/core/styles"
)

// HelpDialog displays markdown help rendered with the active theme.
type HelpDialog struct {
	title string
	body  string
}

// NewHelpDialog renders markdown for a dialog of at most width columns.
func NewHelpDialog(title, markdown string, width int) (*HelpDialog, error) {
	body, err := RenderMarkdown(markdown, max(20, width-8))
	if err != nil {
		return nil, err
	}
	return &HelpDialog{title: title, body: strings.Trim(body, "\n")}, nil
}

// RenderMarkdown renders markdown with a glamour style derived from the
// active theme, wrapped at width columns.
func RenderMarkdown(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// View renders the help dialog.
func (h *HelpDialog) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(h.title),
		h.body,
		styles.ModalHelpStyle.Render("esc/? close"),
	)
	return styles.ModalStyle.Render(content)
}

// Overlay renders the dialog as a layer centered over the given background.
func Overlay(background, modal string, width, height int) string {
	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	centerX := max(0, (width-lipgloss.Width(modal))/2)
	centerY := max(0, (height-lipgloss.Height(modal))/2)
	modalLayer.X(centerX).Y(centerY).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
