// Package annotate drives an alignment session over two token sequences. It
// turns abstract actions into selection, commit and undo operations while
// keeping every fixed token paired with exactly one mapping entry.
package annotate

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/colonyops/bitext/internal/core/alignment"
	"github.com/colonyops/bitext/internal/core/entry"
	"github.com/colonyops/bitext/internal/core/logging"
	"github.com/colonyops/bitext/internal/core/tokens"
)

// DefaultWidth is the row width used for vertical moves until SetWidth is
// called.
const DefaultWidth = 80

// Session owns two token sequences and the mapping between them.
type Session struct {
	seqs       [2]*tokens.Sequence
	mapping    *alignment.Mapping
	side       alignment.Side
	continuous bool
	cursor     int
	width      int
	log        zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithWidth sets the row width used for vertical moves.
func WithWidth(width int) Option {
	return func(s *Session) { s.SetWidth(width) }
}

// WithLogger replaces the component logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// Result is the outcome of a session: the final token lists and the mapping
// expressed as index pairs.
type Result struct {
	A     []string
	B     []string
	Pairs []entry.Pair
}

// New builds a session from two token lists and an optional mapping given as
// index pairs. Indices that are out of range or already claimed by an earlier
// pair are dropped, and pairs left empty are skipped.
func New(a, b []string, pairs []entry.Pair, opts ...Option) *Session {
	s := &Session{
		seqs:    [2]*tokens.Sequence{tokens.New(a), tokens.New(b)},
		mapping: alignment.New(),
		side:    alignment.SideA,
		width:   DefaultWidth,
		log:     logging.Component("annotate"),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range pairs {
		e := alignment.Entry{
			A: s.claim(alignment.SideA, p.A),
			B: s.claim(alignment.SideB, p.B),
		}
		if e.Empty() {
			s.log.Debug().Ints("a", p.A).Ints("b", p.B).Msg("dropping empty preloaded pair")
			continue
		}
		s.seq(alignment.SideA).MarkFixed(e.A...)
		s.seq(alignment.SideB).MarkFixed(e.B...)
		s.mapping.Add(e)
	}

	for _, seq := range s.seqs {
		seq.ActivateClosestNoFixed(0)
	}
	s.followActive()
	return s
}

// claim converts preloaded indices to ids, skipping invalid or fixed ones.
func (s *Session) claim(side alignment.Side, idxs []int) []int {
	seq := s.seq(side)
	var ids []int
	for _, idx := range idxs {
		if idx < 0 || idx >= seq.Len() || seq.At(idx).Status == tokens.StatusFixed {
			continue
		}
		id := seq.IDAt(idx)
		if slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *Session) seq(side alignment.Side) *tokens.Sequence { return s.seqs[side] }

func (s *Session) current() *tokens.Sequence { return s.seqs[s.side] }

// followActive moves the character cursor to the start of the active token.
func (s *Session) followActive() {
	cur := s.current()
	if cur.Empty() {
		s.cursor = 0
		return
	}
	s.cursor = cur.CharAtWord(cur.Active())
}

// Apply performs a and reports whether the session is finished.
func (s *Session) Apply(a Action) bool {
	switch a {
	case ActionQuit:
		return true
	case ActionStepLeft:
		s.step(s.current().PrevNoFixed)
	case ActionStepRight:
		s.step(s.current().NextNoFixed)
	case ActionRawLeft:
		s.step(s.current().Prev)
	case ActionRawRight:
		s.step(s.current().Next)
	case ActionUp:
		s.vertical(-s.width)
	case ActionDown:
		s.vertical(s.width)
	case ActionSwitchSide:
		s.switchSide()
	case ActionToggleSelect:
		s.toggleSelect()
	case ActionClearSelection:
		for _, seq := range s.seqs {
			seq.ClearSelection()
		}
	case ActionCommit:
		s.commit()
	case ActionUndo:
		s.undo()
	case ActionDeleteEntry:
		s.deleteEntry()
	case ActionToggleContinuous:
		s.continuous = !s.continuous
		if s.continuous {
			s.selectActive()
		}
	case ActionCancel:
		s.continuous = false
	case ActionNone:
	default:
		s.log.Warn().Stringer("action", a).Msg("unhandled action")
	}
	return false
}

func (s *Session) step(move func(int) int) {
	cur := s.current()
	if cur.Empty() {
		return
	}
	prev := cur.Active()
	cur.SetActive(move(prev))
	if cur.Active() == prev {
		return
	}
	s.followActive()
	if s.continuous {
		s.selectActive()
	}
}

func (s *Session) vertical(delta int) {
	cur := s.current()
	if cur.Empty() {
		return
	}
	s.cursor = max(0, min(s.cursor+delta, cur.CharLen()-1))
	cur.SetActive(cur.WordAtChar(s.cursor))
}

// switchSide lands on the other side at the column where the active token
// starts, not at the raw cursor, which may sit inside a long token after a
// vertical move.
func (s *Session) switchSide() {
	offset := 0
	if cur := s.current(); !cur.Empty() {
		offset = cur.CharAtWord(cur.Active())
	}
	s.side = s.side.Other()
	cur := s.current()
	cur.ActivateClosestNoFixed(cur.WordAtChar(offset))
	s.followActive()
}

func (s *Session) toggleSelect() {
	tok, ok := s.current().ActiveToken()
	if !ok || tok.Status == tokens.StatusFixed {
		return
	}
	s.current().AddToSelection(tok.ID)
}

// selectActive toggles the active token. Fixed tokens are ignored by
// AddToSelection.
func (s *Session) selectActive() {
	if tok, ok := s.current().ActiveToken(); ok {
		s.current().AddToSelection(tok.ID)
	}
}

func (s *Session) commit() {
	e := alignment.Entry{
		A: s.seq(alignment.SideA).SelectedIDs(),
		B: s.seq(alignment.SideB).SelectedIDs(),
	}
	if e.Empty() {
		return
	}

	for _, seq := range s.seqs {
		seq.FixSelection()
	}
	s.mapping.Add(e)

	for _, seq := range s.seqs {
		seq.ActivateClosestNoFixed(seq.Active())
	}
	s.followActive()
	s.log.Debug().Ints("a", e.A).Ints("b", e.B).Int("entries", s.mapping.Len()).Msg("committed")
}

func (s *Session) undo() {
	e, err := s.mapping.Pop()
	if err != nil {
		s.log.Debug().Err(err).Msg("undo ignored")
		return
	}
	for _, seq := range s.seqs {
		seq.ClearSelection()
	}
	s.unfix(e)
}

func (s *Session) deleteEntry() {
	tok, ok := s.current().ActiveToken()
	if !ok {
		return
	}
	e, err := s.mapping.RemoveContaining(s.side, tok.ID)
	if err != nil {
		s.log.Debug().Err(err).Int("id", tok.ID).Msg("delete ignored")
		return
	}
	s.unfix(e)
}

func (s *Session) unfix(e alignment.Entry) {
	s.seq(alignment.SideA).Unfix(e.A...)
	s.seq(alignment.SideB).Unfix(e.B...)
}

// Retokenize runs edit over the given side. When the token list changes every
// status on both sides is reset and the mapping is cleared, because its ids
// no longer exist.
func (s *Session) Retokenize(ctx context.Context, side alignment.Side, edit tokens.EditFunc) (bool, error) {
	changed, err := s.seq(side).Retokenize(ctx, edit)
	if err != nil || !changed {
		return false, err
	}

	for _, seq := range s.seqs {
		seq.Reset()
	}
	s.mapping.Clear()
	s.followActive()
	s.log.Info().Stringer("side", side).Int("tokens", s.seq(side).Len()).Msg("retokenized")
	return true, nil
}

// SetWidth sets the row width used for vertical moves. Widths below one are
// raised to one.
func (s *Session) SetWidth(width int) { s.width = max(1, width) }

// Width returns the row width used for vertical moves.
func (s *Session) Width() int { return s.width }

// Side returns the side receiving input.
func (s *Session) Side() alignment.Side { return s.side }

// Continuous reports whether continuous selection is on.
func (s *Session) Continuous() bool { return s.continuous }

// Cursor returns the character offset into the active side's rendering.
func (s *Session) Cursor() int { return s.cursor }

// Tokens returns a copy of the tokens on side.
func (s *Session) Tokens(side alignment.Side) []tokens.Token { return s.seq(side).Tokens() }

// Text returns the space-joined rendering of side.
func (s *Session) Text(side alignment.Side) string { return s.seq(side).String() }

// Active returns the active index on side, or -1 when it is empty.
func (s *Session) Active(side alignment.Side) int { return s.seq(side).Active() }

// Selected returns the texts of selected tokens on side.
func (s *Session) Selected(side alignment.Side) []string { return s.seq(side).SelectedText() }

// Entries returns the committed entries in commit order.
func (s *Session) Entries() []alignment.Entry { return s.mapping.Current() }

// EntryTexts returns the token texts of each entry, for previews.
func (s *Session) EntryTexts() [][2][]string {
	entries := s.mapping.Current()
	out := make([][2][]string, len(entries))
	for i, e := range entries {
		out[i] = [2][]string{s.texts(alignment.SideA, e.A), s.texts(alignment.SideB, e.B)}
	}
	return out
}

func (s *Session) texts(side alignment.Side, ids []int) []string {
	seq := s.seq(side)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if i := seq.IndexOf(id); i >= 0 {
			out = append(out, seq.At(i).Text)
		}
	}
	return out
}

// Result returns the final token lists and the mapping as index pairs.
func (s *Session) Result() Result {
	entries := s.mapping.Current()
	pairs := make([]entry.Pair, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, entry.Pair{
			A: s.indices(alignment.SideA, e.A),
			B: s.indices(alignment.SideB, e.B),
		})
	}
	return Result{
		A:     s.seq(alignment.SideA).Texts(),
		B:     s.seq(alignment.SideB).Texts(),
		Pairs: pairs,
	}
}

func (s *Session) indices(side alignment.Side, ids []int) entry.Group {
	seq := s.seq(side)
	out := make(entry.Group, 0, len(ids))
	for _, id := range ids {
		if i := seq.IndexOf(id); i >= 0 {
			out = append(out, i)
		}
	}
	return out
}
