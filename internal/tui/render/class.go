// Package render turns read-only session state into styled text: per-token
// classes, wrapped rows, viewport scrolling, a status line and a mapping
// preview.
package render

import (
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/bitext/internal/core/styles"
	"github.com/colonyops/bitext/internal/core/tokens"
)

// Cursor says whether a token is under a cursor, and whose.
type Cursor int

const (
	// CursorNone marks tokens away from the cursor.
	CursorNone Cursor = iota
	// CursorFocused marks the active token of the side receiving input.
	CursorFocused
	// CursorUnfocused marks the active token of the other side.
	CursorUnfocused
)

// Class is the closed set of token style classes, one per status and cursor
// combination.
type Class int

const (
	ClassNormal Class = iota
	ClassNormalFocused
	ClassNormalUnfocused
	ClassSelected
	ClassSelectedFocused
	ClassSelectedUnfocused
	ClassFixed
	ClassFixedFocused
	ClassFixedUnfocused

	numClasses
)

// ClassOf returns the class of a token with the given status and cursor.
func ClassOf(status tokens.Status, cursor Cursor) Class {
	return Class(int(status)*3 + int(cursor))
}

// Status returns the token status encoded in c.
func (c Class) Status() tokens.Status { return tokens.Status(int(c) / 3) }

// Cursor returns the cursor state encoded in c.
func (c Class) Cursor() Cursor { return Cursor(int(c) % 3) }

// Style returns the lipgloss style for c from the active theme.
func Style(c Class) lipgloss.Style {
	switch c {
	case ClassNormalFocused:
		return styles.TokenNormalCursorStyle
	case ClassNormalUnfocused:
		return styles.TokenNormalShadowStyle
	case ClassSelected:
		return styles.TokenSelectedStyle
	case ClassSelectedFocused:
		return styles.TokenSelectedCursorStyle
	case ClassSelectedUnfocused:
		return styles.TokenSelectedShadowStyle
	case ClassFixed:
		return styles.TokenFixedStyle
	case ClassFixedFocused:
		return styles.TokenFixedCursorStyle
	case ClassFixedUnfocused:
		return styles.TokenFixedShadowStyle
	default:
		return styles.TokenNormalStyle
	}
}
