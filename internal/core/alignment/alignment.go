// Package alignment holds the history of committed correspondences between
// two token sequences. It stores token ids only and never touches token
// status; keeping statuses in step is the caller's job.
package alignment

import (
	"errors"
	"slices"
)

var (
	// ErrEmptyHistory is returned by Pop when nothing has been committed.
	ErrEmptyHistory = errors.New("alignment: empty history")
	// ErrNotFound is returned by RemoveContaining when no entry holds the id.
	ErrNotFound = errors.New("alignment: entry not found")
)

// Side identifies one of the two aligned sequences.
type Side int

const (
	SideA Side = iota
	SideB
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// Entry links a group of token ids in sequence A to a group in sequence B.
type Entry struct {
	A []int
	B []int
}

// Group returns the ids on the given side.
func (e Entry) Group(side Side) []int {
	if side == SideA {
		return e.A
	}
	return e.B
}

// Empty reports whether both groups are empty.
func (e Entry) Empty() bool { return len(e.A) == 0 && len(e.B) == 0 }

func (e Entry) clone() Entry {
	return Entry{A: slices.Clone(e.A), B: slices.Clone(e.B)}
}

// Mapping is the ordered, append-only history of committed entries.
type Mapping struct {
	entries []Entry
}

// New returns a mapping preloaded with entries.
func New(entries ...Entry) *Mapping {
	m := &Mapping{}
	for _, e := range entries {
		m.Add(e)
	}
	return m
}

// Add appends an entry. Overlap with existing entries is not checked.
func (m *Mapping) Add(e Entry) {
	m.entries = append(m.entries, e.clone())
}

// Pop removes and returns the most recently added entry.
func (m *Mapping) Pop() (Entry, error) {
	if len(m.entries) == 0 {
		return Entry{}, ErrEmptyHistory
	}
	last := m.entries[len(m.entries)-1]
	m.entries = m.entries[:len(m.entries)-1]
	return last, nil
}

// RemoveContaining removes and returns the first entry whose group on side
// contains id. It may remove an entry anywhere in the history.
func (m *Mapping) RemoveContaining(side Side, id int) (Entry, error) {
	i := m.find(side, id)
	if i < 0 {
		return Entry{}, ErrNotFound
	}
	e := m.entries[i]
	m.entries = slices.Delete(m.entries, i, i+1)
	return e, nil
}

// Contains reports whether some entry holds id on side.
func (m *Mapping) Contains(side Side, id int) bool {
	return m.find(side, id) >= 0
}

func (m *Mapping) find(side Side, id int) int {
	return slices.IndexFunc(m.entries, func(e Entry) bool {
		return slices.Contains(e.Group(side), id)
	})
}

// Current returns a copy of the entries in commit order.
func (m *Mapping) Current() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of live entries.
func (m *Mapping) Len() int { return len(m.entries) }

// Clear drops every entry.
func (m *Mapping) Clear() { m.entries = nil }
