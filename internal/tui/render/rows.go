package render

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/bitext/internal/core/tokens"
)

// Cell is one rune of the rendering with its class.
type Cell struct {
	Rune  rune
	Class Class
}

// Row is a display row of at most width cells.
type Row []Cell

// String returns the row's text without styling.
func (r Row) String() string {
	var b strings.Builder
	for _, c := range r {
		b.WriteRune(c.Rune)
	}
	return b.String()
}

// Rows hard-wraps the single-space joined rendering of toks into rows no
// wider than width terminal cells. Wide runes (CJK, emoji) count as two
// cells and are never split; a row with a wide rune may fall one cell short.
// Separating spaces are always ClassNormal.
func Rows(toks []tokens.Token, active int, focused bool, width int) []Row {
	rows, _ := layout(toks, active, focused, width)
	return rows
}

// layout wraps toks and records the row where each token starts.
func layout(toks []tokens.Token, active int, focused bool, width int) ([]Row, []int) {
	width = max(1, width)

	var (
		rows   []Row
		row    Row
		used   int
		starts = make([]int, len(toks))
	)
	put := func(r rune, class Class) {
		w := ansi.StringWidth(string(r))
		if len(row) > 0 && used+w > width {
			rows = append(rows, row)
			row, used = nil, 0
		}
		row = append(row, Cell{Rune: r, Class: class})
		used += w
	}

	for i, t := range toks {
		cursor := CursorNone
		if i == active {
			cursor = CursorUnfocused
			if focused {
				cursor = CursorFocused
			}
		}
		class := ClassOf(t.Status, cursor)
		for j, r := range []rune(t.Text) {
			put(r, class)
			if j == 0 {
				starts[i] = len(rows)
			}
		}
		if t.Text == "" {
			starts[i] = len(rows)
		}
		put(' ', ClassNormal)
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows, starts
}

// ActiveRow returns the row holding the first rune of token active.
func ActiveRow(toks []tokens.Token, active, width int) int {
	if active < 0 || active >= len(toks) {
		return 0
	}
	_, starts := layout(toks, active, false, width)
	return starts[active]
}

// ScrollTop returns the first visible row so that activeRow is centered in a
// viewport of height rows, clamped to [0, max(0, total-height)].
func ScrollTop(activeRow, total, height int) int {
	if height <= 0 {
		return 0
	}
	top := activeRow - height/2
	return max(0, min(top, total-height))
}

// Styled renders a row, merging runs of equal class into one styled span.
func (r Row) Styled() string {
	var b strings.Builder
	for start := 0; start < len(r); {
		end := start
		for end < len(r) && r[end].Class == r[start].Class {
			end++
		}
		b.WriteString(Style(r[start].Class).Render(Row(r[start:end]).String()))
		start = end
	}
	return b.String()
}

// Pane renders the visible rows of a sequence, scrolled so the active token
// stays centered. A height of zero returns every row.
func Pane(toks []tokens.Token, active int, focused bool, width, height int) []string {
	rows, starts := layout(toks, active, focused, width)
	if len(rows) == 0 {
		return nil
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.Styled()
	}
	if height <= 0 {
		return lines
	}

	activeRow := 0
	if active >= 0 && active < len(starts) {
		activeRow = starts[active]
	}

	vp := viewport.New(viewport.WithWidth(max(1, width)), viewport.WithHeight(min(height, len(rows))))
	vp.SetContentLines(lines)
	vp.SetYOffset(ScrollTop(activeRow, len(rows), height))
	return strings.Split(vp.View(), "\n")
}
