// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style

	// Token styles, one per status and cursor state. The Cursor variants mark
	// the active token of the focused side, the Shadow variants the active
	// token of the other side.
	TokenNormalStyle         lipgloss.Style
	TokenNormalCursorStyle   lipgloss.Style
	TokenNormalShadowStyle   lipgloss.Style
	TokenSelectedStyle       lipgloss.Style
	TokenSelectedCursorStyle lipgloss.Style
	TokenSelectedShadowStyle lipgloss.Style
	TokenFixedStyle          lipgloss.Style
	TokenFixedCursorStyle    lipgloss.Style
	TokenFixedShadowStyle    lipgloss.Style

	// Annotation screen chrome.
	TitleStyle       lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	SideLabelStyle   lipgloss.Style
	StatusLabelStyle lipgloss.Style
	StatusValueStyle lipgloss.Style
	StatusModeStyle  lipgloss.Style
	PreviewStyle     lipgloss.Style
	HelpStyle        lipgloss.Style
	ModalStyle       lipgloss.Style
	ModalTitleStyle  lipgloss.Style
	ModalHelpStyle   lipgloss.Style
	TextMutedStyle   lipgloss.Style
	TextPrimaryStyle lipgloss.Style
	TextSuccessStyle lipgloss.Style
	TextWarningStyle lipgloss.Style
	UngroundedStyle  lipgloss.Style
	GroupBaseStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	TokenNormalStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	TokenNormalCursorStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true)
	TokenNormalShadowStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface)

	TokenSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)
	TokenSelectedCursorStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorWarning).
		Bold(true)
	TokenSelectedShadowStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Background(ColorSurface)

	TokenFixedStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	TokenFixedCursorStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorSuccess)
	TokenFixedShadowStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Background(ColorSurface)

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)
	PaneFocusedStyle = PaneStyle.
		BorderForeground(ColorPrimary)
	SideLabelStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	StatusLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	StatusValueStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	StatusModeStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorSecondary).
		Padding(0, 1)
	PreviewStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextPrimaryStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	UngroundedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	GroupBaseStyle = lipgloss.NewStyle().Bold(true)
}

// GroupStyle returns the style used for tokens of the given mapping group in
// read-only renderings.
func GroupStyle(group int) lipgloss.Style {
	if group < 0 {
		return UngroundedStyle
	}
	return GroupBaseStyle.Foreground(GroupColor(group))
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
