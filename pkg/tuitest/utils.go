// Package tuitest provides testing utilities for TUI components.
package tuitest

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape codes and trailing whitespace so rendered
// views can be compared as plain text.
func StripANSI(s string) string {
	lines := strings.Split(ansi.Strip(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// KeyPress creates a key press message for a single rune.
func KeyPress(key rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: key, Text: string(key)})
}

// Keys creates one key press message per rune of s.
func Keys(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, KeyPress(r))
	}
	return msgs
}

func code(c rune) tea.Msg { return tea.KeyPressMsg(tea.Key{Code: c}) }

// KeyLeft creates a left arrow key press message.
func KeyLeft() tea.Msg { return code(tea.KeyLeft) }

// KeyRight creates a right arrow key press message.
func KeyRight() tea.Msg { return code(tea.KeyRight) }

// KeyShiftRight creates a shift+right key press message.
func KeyShiftRight() tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyRight, Mod: tea.ModShift})
}

// KeyDown creates a down arrow key press message.
func KeyDown() tea.Msg { return code(tea.KeyDown) }

// KeyUp creates an up arrow key press message.
func KeyUp() tea.Msg { return code(tea.KeyUp) }

// KeyEnter creates an enter key press message.
func KeyEnter() tea.Msg { return code(tea.KeyEnter) }

// KeyTab creates a tab key press message.
func KeyTab() tea.Msg { return code(tea.KeyTab) }

// KeySpace creates a space key press message.
func KeySpace() tea.Msg { return tea.KeyPressMsg(tea.Key{Code: tea.KeySpace, Text: " "}) }

// KeyEsc creates an escape key press message.
func KeyEsc() tea.Msg { return code(tea.KeyEscape) }

// KeyCtrlC creates a ctrl+c key press message.
func KeyCtrlC() tea.Msg { return tea.KeyPressMsg(tea.Key{Code: 'c', Mod: tea.ModCtrl}) }

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}
