// Package tokens implements an ordered token sequence with per-token status
// and a movable cursor. Tokens are addressed by index for navigation and by
// id for identity; ids are assigned once and never reused.
package tokens

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"
)

// Status is the annotation state of a single token.
type Status int

const (
	StatusNormal Status = iota
	StatusSelected
	StatusFixed
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusSelected:
		return "selected"
	case StatusFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Token is a word of a sentence with a stable identity.
type Token struct {
	ID     int
	Text   string
	Status Status
}

// EditFunc receives the space-joined rendering of a sequence and returns the
// (possibly modified) text.
type EditFunc func(ctx context.Context, text string) (string, error)

// Sequence is a dense, index-addressed list of tokens plus the active index.
// Active is -1 when the sequence is empty.
type Sequence struct {
	tokens []Token
	active int
	nextID int
}

// New builds a sequence from raw token texts. Ids are the construction
// positions, so a freshly built sequence maps index i to id i.
func New(texts []string) *Sequence {
	s := &Sequence{active: -1}
	s.replace(texts)
	return s
}

func (s *Sequence) replace(texts []string) {
	s.tokens = make([]Token, 0, len(texts))
	for _, t := range texts {
		s.tokens = append(s.tokens, Token{ID: s.nextID, Text: t})
		s.nextID++
	}
	s.active = -1
	if len(s.tokens) > 0 {
		s.active = 0
	}
}

// Len returns the number of tokens.
func (s *Sequence) Len() int { return len(s.tokens) }

// Empty reports whether the sequence has no tokens.
func (s *Sequence) Empty() bool { return len(s.tokens) == 0 }

// Tokens returns a copy of the tokens in order.
func (s *Sequence) Tokens() []Token { return slices.Clone(s.tokens) }

// At returns the token at idx. idx must be in range.
func (s *Sequence) At(idx int) Token { return s.tokens[idx] }

// Texts returns the token texts in order.
func (s *Sequence) Texts() []string {
	out := make([]string, len(s.tokens))
	for i, t := range s.tokens {
		out[i] = t.Text
	}
	return out
}

// String returns the single-space joined rendering.
func (s *Sequence) String() string { return strings.Join(s.Texts(), " ") }

// Active returns the active index, or -1 for an empty sequence.
func (s *Sequence) Active() int { return s.active }

// ActiveToken returns the active token and false when the sequence is empty.
func (s *Sequence) ActiveToken() (Token, bool) {
	if s.active < 0 {
		return Token{}, false
	}
	return s.tokens[s.active], true
}

// SetActive moves the cursor to idx, clamped to the sequence bounds.
func (s *Sequence) SetActive(idx int) {
	if s.Empty() {
		s.active = -1
		return
	}
	s.active = s.clamp(idx)
}

// IndexOf returns the position of the token with the given id, or -1.
func (s *Sequence) IndexOf(id int) int {
	return slices.IndexFunc(s.tokens, func(t Token) bool { return t.ID == id })
}

// IDAt returns the id of the token at idx, or -1 when idx is out of range.
func (s *Sequence) IDAt(idx int) int {
	if idx < 0 || idx >= len(s.tokens) {
		return -1
	}
	return s.tokens[idx].ID
}

func (s *Sequence) clamp(idx int) int {
	return max(0, min(idx, len(s.tokens)-1))
}

func (s *Sequence) fixed(idx int) bool {
	return s.tokens[idx].Status == StatusFixed
}

// Next returns the index one step forward from idx, clamped to the last token.
func (s *Sequence) Next(idx int) int {
	if s.Empty() {
		return -1
	}
	return s.clamp(idx + 1)
}

// Prev returns the index one step backward from idx, clamped to the first token.
func (s *Sequence) Prev(idx int) int {
	if s.Empty() {
		return -1
	}
	return s.clamp(idx - 1)
}

// NextNoFixed returns the nearest index after idx whose token is not fixed.
// When no such token exists idx is returned unchanged.
func (s *Sequence) NextNoFixed(idx int) int {
	for i := idx + 1; i < len(s.tokens); i++ {
		if !s.fixed(i) {
			return i
		}
	}
	return idx
}

// PrevNoFixed returns the nearest index before idx whose token is not fixed.
// When no such token exists idx is returned unchanged.
func (s *Sequence) PrevNoFixed(idx int) int {
	for i := min(idx, len(s.tokens)) - 1; i >= 0; i-- {
		if !s.fixed(i) {
			return i
		}
	}
	return idx
}

// ActivateClosestNoFixed activates idx when its token is not fixed, otherwise
// the nearest non-fixed token. The backward candidate wins only when strictly
// closer; a direction with no candidate never wins. If every token is fixed
// idx itself is activated.
func (s *Sequence) ActivateClosestNoFixed(idx int) {
	if s.Empty() {
		s.active = -1
		return
	}
	idx = s.clamp(idx)
	if !s.fixed(idx) {
		s.active = idx
		return
	}

	next := s.NextNoFixed(idx)
	prev := s.PrevNoFixed(idx)
	switch {
	case next == idx && prev == idx:
		s.active = idx
	case next == idx:
		s.active = prev
	case prev == idx:
		s.active = next
	case idx-prev < next-idx:
		s.active = prev
	default:
		s.active = next
	}
}

// AddToSelection toggles each id between normal and selected. Fixed tokens
// are left untouched.
func (s *Sequence) AddToSelection(ids ...int) {
	for _, id := range ids {
		i := s.IndexOf(id)
		if i < 0 {
			continue
		}
		switch s.tokens[i].Status {
		case StatusNormal:
			s.tokens[i].Status = StatusSelected
		case StatusSelected:
			s.tokens[i].Status = StatusNormal
		}
	}
}

// ClearSelection turns every selected token back to normal.
func (s *Sequence) ClearSelection() {
	s.transition(StatusSelected, StatusNormal)
}

// FixSelection turns every selected token into a fixed one.
func (s *Sequence) FixSelection() {
	s.transition(StatusSelected, StatusFixed)
}

// Unfix turns the given fixed tokens back into selected ones.
func (s *Sequence) Unfix(ids ...int) {
	for _, id := range ids {
		if i := s.IndexOf(id); i >= 0 && s.fixed(i) {
			s.tokens[i].Status = StatusSelected
		}
	}
}

// MarkFixed sets the given tokens to fixed regardless of their status. It is
// used when a session is preloaded with an existing mapping.
func (s *Sequence) MarkFixed(ids ...int) {
	for _, id := range ids {
		if i := s.IndexOf(id); i >= 0 {
			s.tokens[i].Status = StatusFixed
		}
	}
}

// Reset turns every token back to normal.
func (s *Sequence) Reset() {
	for i := range s.tokens {
		s.tokens[i].Status = StatusNormal
	}
}

func (s *Sequence) transition(from, to Status) {
	for i := range s.tokens {
		if s.tokens[i].Status == from {
			s.tokens[i].Status = to
		}
	}
}

// SelectedIDs returns the ids of selected tokens in sequence order.
func (s *Sequence) SelectedIDs() []int {
	var ids []int
	for _, t := range s.tokens {
		if t.Status == StatusSelected {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// SelectedText returns the texts of selected tokens in sequence order.
func (s *Sequence) SelectedText() []string {
	var texts []string
	for _, t := range s.tokens {
		if t.Status == StatusSelected {
			texts = append(texts, t.Text)
		}
	}
	return texts
}

// CharLen returns the rune length of the rendering including one trailing
// space per token.
func (s *Sequence) CharLen() int {
	n := 0
	for _, t := range s.tokens {
		n += utf8.RuneCountInString(t.Text) + 1
	}
	return n
}

// CharAtWord returns the rune offset at which token idx starts.
func (s *Sequence) CharAtWord(idx int) int {
	offset := 0
	for i := 0; i < idx && i < len(s.tokens); i++ {
		offset += utf8.RuneCountInString(s.tokens[i].Text) + 1
	}
	return offset
}

// WordAtChar returns the index of the token covering the rune offset. A
// trailing space belongs to the token before it. Offsets past the end clamp
// to the last token.
func (s *Sequence) WordAtChar(offset int) int {
	if s.Empty() {
		return -1
	}
	end := 0
	for i, t := range s.tokens {
		end += utf8.RuneCountInString(t.Text) + 1
		if offset < end {
			return i
		}
	}
	return len(s.tokens) - 1
}

// Retokenize hands the joined rendering to edit and re-splits the result on
// whitespace. A different token list replaces every token with fresh ids and
// normal status and reports true. An identical list leaves the sequence
// untouched and reports false.
func (s *Sequence) Retokenize(ctx context.Context, edit EditFunc) (bool, error) {
	out, err := edit(ctx, s.String())
	if err != nil {
		return false, err
	}

	texts := strings.Fields(out)
	if slices.Equal(texts, s.Texts()) {
		return false, nil
	}

	s.replace(texts)
	return true, nil
}
