package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/bitext/internal/core/alignment"
	"github.com/colonyops/bitext/internal/core/tokens"
)

// SessionView is the read-only session state the adapter draws from.
type SessionView interface {
	Side() alignment.Side
	Continuous() bool
	Tokens(side alignment.Side) []tokens.Token
	Active(side alignment.Side) int
	Selected(side alignment.Side) []string
	EntryTexts() [][2][]string
}

const emptyGroup = "∅"

// StatusLine describes the current selections on both sides.
func StatusLine(v SessionView) string {
	var b strings.Builder
	for i, side := range []alignment.Side{alignment.SideA, alignment.SideB} {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(side.String())
		if v.Side() == side {
			b.WriteString("*")
		}
		b.WriteString(": ")
		b.WriteString(group(v.Selected(side)))
	}
	if v.Continuous() {
		b.WriteString("  [continuous]")
	}
	return b.String()
}

func group(texts []string) string {
	if len(texts) == 0 {
		return emptyGroup
	}
	return strings.Join(texts, " ")
}

// Preview renders the committed entries as "a→b" pairs in commit order. When
// the text is wider than width its head is cut and replaced by an ellipsis so
// the most recent entries stay visible.
func Preview(entries [][2][]string, width int) string {
	if width <= 0 {
		return ""
	}

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = group(e[0]) + "→" + group(e[1])
	}
	s := strings.Join(parts, "; ")

	if w := ansi.StringWidth(s); w > width {
		s = ansi.TruncateLeft(s, w-width+1, "…")
	}
	return s
}
