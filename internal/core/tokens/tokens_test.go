package tokens

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqWithFixed(texts []string, fixed ...int) *Sequence {
	s := New(texts)
	s.MarkFixed(fixed...)
	return s
}

func statuses(s *Sequence) []Status {
	out := make([]Status, 0, s.Len())
	for _, t := range s.Tokens() {
		out = append(out, t.Status)
	}
	return out
}

func TestNew_AssignsPositionalIDs(t *testing.T) {
	s := New([]string{"Le", "chat", "mange"})

	require.Equal(t, 3, s.Len())
	for i, tok := range s.Tokens() {
		assert.Equal(t, i, tok.ID)
		assert.Equal(t, StatusNormal, tok.Status)
	}
	assert.Equal(t, 0, s.Active())
	assert.Equal(t, "Le chat mange", s.String())
}

func TestNew_Empty(t *testing.T) {
	s := New(nil)

	assert.True(t, s.Empty())
	assert.Equal(t, -1, s.Active())
	_, ok := s.ActiveToken()
	assert.False(t, ok)
	assert.Equal(t, -1, s.Next(0))
	assert.Equal(t, -1, s.Prev(0))
	assert.Equal(t, -1, s.WordAtChar(3))
}

func TestNextPrev_Clamped(t *testing.T) {
	s := New([]string{"a", "b", "c"})

	tests := []struct {
		name string
		got  int
		want int
	}{
		{name: "next in range", got: s.Next(0), want: 1},
		{name: "next at last stays", got: s.Next(2), want: 2},
		{name: "next twice at last stays", got: s.Next(s.Next(2)), want: 2},
		{name: "prev in range", got: s.Prev(2), want: 1},
		{name: "prev at first stays", got: s.Prev(0), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestNoFixedNavigation(t *testing.T) {
	// a B c D e   (upper case = fixed)
	s := seqWithFixed([]string{"a", "b", "c", "d", "e"}, 1, 3)

	assert.Equal(t, 2, s.NextNoFixed(0))
	assert.Equal(t, 4, s.NextNoFixed(2))
	assert.Equal(t, 4, s.NextNoFixed(4), "no candidate returns the reference")
	assert.Equal(t, 2, s.PrevNoFixed(4))
	assert.Equal(t, 0, s.PrevNoFixed(2))
	assert.Equal(t, 0, s.PrevNoFixed(0), "no candidate returns the reference")
}

func TestNoFixedNavigation_RoundTrip(t *testing.T) {
	s := seqWithFixed([]string{"a", "b", "c", "d", "e", "f"}, 1, 4)

	for i := 0; i < s.Len(); i++ {
		if s.At(i).Status == StatusFixed {
			continue
		}
		next := s.NextNoFixed(i)
		if next == i {
			continue
		}
		assert.Equal(t, i, s.PrevNoFixed(next), "round trip from %d", i)
	}
}

func TestActivateClosestNoFixed(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		fixed []int
		idx   int
		want  int
	}{
		{
			name:  "direct hit on non fixed token",
			texts: []string{"A", "B", "C", "D", "E"},
			fixed: []int{1, 3},
			idx:   2,
			want:  2,
		},
		{
			name:  "equal distance favours forward",
			texts: []string{"A", "B", "C", "D", "E", "F"},
			fixed: []int{2},
			idx:   2,
			want:  3,
		},
		{
			name:  "backward strictly closer wins",
			texts: []string{"A", "B", "C", "D", "E", "F"},
			fixed: []int{2, 3},
			idx:   2,
			want:  1,
		},
		{
			name:  "forward strictly closer wins",
			texts: []string{"A", "B", "C", "D", "E", "F"},
			fixed: []int{1, 2},
			idx:   2,
			want:  3,
		},
		{
			name:  "no forward candidate falls back to backward",
			texts: []string{"A", "B", "C"},
			fixed: []int{2},
			idx:   2,
			want:  1,
		},
		{
			name:  "no backward candidate goes forward",
			texts: []string{"A", "B", "C", "D"},
			fixed: []int{0, 1},
			idx:   0,
			want:  2,
		},
		{
			name:  "all fixed stays put",
			texts: []string{"A", "B"},
			fixed: []int{0, 1},
			idx:   1,
			want:  1,
		},
		{
			name:  "out of range clamps",
			texts: []string{"A", "B"},
			idx:   9,
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seqWithFixed(tt.texts, tt.fixed...)
			s.ActivateClosestNoFixed(tt.idx)
			assert.Equal(t, tt.want, s.Active())
		})
	}
}

func TestSelectionLifecycle(t *testing.T) {
	s := seqWithFixed([]string{"a", "b", "c", "d"}, 3)

	s.AddToSelection(0, 2, 3)
	assert.Equal(t, []Status{StatusSelected, StatusNormal, StatusSelected, StatusFixed}, statuses(s))
	assert.Equal(t, []int{0, 2}, s.SelectedIDs())
	assert.Equal(t, []string{"a", "c"}, s.SelectedText())

	s.AddToSelection(2)
	assert.Equal(t, []int{0}, s.SelectedIDs(), "second add toggles off")

	s.FixSelection()
	assert.Equal(t, []Status{StatusFixed, StatusNormal, StatusNormal, StatusFixed}, statuses(s))
	assert.Empty(t, s.SelectedIDs())

	s.Unfix(0, 1)
	assert.Equal(t, []Status{StatusSelected, StatusNormal, StatusNormal, StatusFixed}, statuses(s), "unfix only touches fixed tokens")

	s.ClearSelection()
	assert.Equal(t, []Status{StatusNormal, StatusNormal, StatusNormal, StatusFixed}, statuses(s))

	s.Reset()
	assert.Equal(t, []Status{StatusNormal, StatusNormal, StatusNormal, StatusNormal}, statuses(s))
}

func TestCharOffsets(t *testing.T) {
	// "Le chat mange" -> Le=0..2, chat=3..7, mange=8..13
	s := New([]string{"Le", "chat", "mange"})

	assert.Equal(t, 0, s.CharAtWord(0))
	assert.Equal(t, 3, s.CharAtWord(1))
	assert.Equal(t, 8, s.CharAtWord(2))
	assert.Equal(t, 14, s.CharLen())

	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},
		{1, 0},
		{2, 0},
		{3, 1},
		{7, 1},
		{8, 2},
		{13, 2},
		{100, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.WordAtChar(tt.offset), "offset %d", tt.offset)
	}

	for i := 0; i < s.Len(); i++ {
		assert.Equal(t, i, s.WordAtChar(s.CharAtWord(i)))
	}
}

func TestCharOffsets_CountRunes(t *testing.T) {
	s := New([]string{"été", "où"})

	assert.Equal(t, 4, s.CharAtWord(1))
	assert.Equal(t, 1, s.WordAtChar(4))
	assert.Equal(t, 7, s.CharLen())
}

func TestRetokenize(t *testing.T) {
	ctx := context.Background()

	t.Run("unchanged text is a no-op", func(t *testing.T) {
		s := New([]string{"The", "cat", "eats"})
		s.AddToSelection(1)
		s.SetActive(2)
		before := s.Tokens()

		changed, err := s.Retokenize(ctx, func(_ context.Context, text string) (string, error) {
			return "  " + text + "\n", nil
		})
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, before, s.Tokens())
		assert.Equal(t, 2, s.Active())
	})

	t.Run("changed text replaces tokens with fresh ids", func(t *testing.T) {
		s := New([]string{"The", "cat", "eats"})
		s.AddToSelection(0)

		changed, err := s.Retokenize(ctx, func(_ context.Context, _ string) (string, error) {
			return "The cat is eating", nil
		})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, []string{"The", "cat", "is", "eating"}, s.Texts())

		for i, tok := range s.Tokens() {
			assert.Equal(t, 3+i, tok.ID, "ids are never reused")
			assert.Equal(t, StatusNormal, tok.Status)
		}
		assert.Equal(t, 0, s.Active())
	})

	t.Run("empty result is accepted", func(t *testing.T) {
		s := New([]string{"x"})

		changed, err := s.Retokenize(ctx, func(_ context.Context, _ string) (string, error) {
			return "   ", nil
		})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, s.Empty())
		assert.Equal(t, -1, s.Active())
	})

	t.Run("editor error leaves tokens untouched", func(t *testing.T) {
		s := New([]string{"x", "y"})
		boom := errors.New("boom")

		changed, err := s.Retokenize(ctx, func(_ context.Context, _ string) (string, error) {
			return "", boom
		})
		require.ErrorIs(t, err, boom)
		assert.False(t, changed)
		assert.Equal(t, []string{"x", "y"}, s.Texts())
	})
}
