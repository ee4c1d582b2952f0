// Package entry defines the persisted form of an annotated sentence pair and
// the service used to load and store it.
package entry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Entry is a source sentence plus one target sentence per language, each
// target carrying its alignment to the source.
type Entry struct {
	SourceLang string            `json:"source_lang"`
	Source     Text              `json:"source"`
	Targets    map[string]Target `json:"targets"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Text is a sentence and its tokenization.
type Text struct {
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"`
}

// Target is a target-language sentence and its alignment to the source.
type Target struct {
	Text    string   `json:"text"`
	Tokens  []string `json:"tokens"`
	Mapping []Pair   `json:"mapping"`
}

// Tokenize splits text on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// JoinTokens rebuilds a sentence from toks. Tokens carrying spacing markers
// are detokenized; plain tokens are joined with single spaces.
func JoinTokens(toks []string) string {
	if slices.ContainsFunc(toks, IsMarker) {
		return Detokenize(toks, Human)
	}
	return strings.Join(toks, " ")
}

// NewText tokenizes text.
func NewText(text string) Text {
	return Text{Text: text, Tokens: Tokenize(text)}
}

// New creates an entry with a source sentence and no targets.
func New(sourceLang, source string) Entry {
	return Entry{
		SourceLang: sourceLang,
		Source:     NewText(source),
		Targets:    map[string]Target{},
	}
}

// Languages returns the target languages in sorted order.
func (e Entry) Languages() []string {
	return slices.Sorted(maps.Keys(e.Targets))
}

// Target returns the target for lang.
func (e Entry) Target(lang string) (Target, bool) {
	t, ok := e.Targets[lang]
	return t, ok
}

// SetTarget stores t under lang.
func (e *Entry) SetTarget(lang string, t Target) {
	if e.Targets == nil {
		e.Targets = map[string]Target{}
	}
	e.Targets[lang] = t
}

// AddTarget tokenizes text and stores it under lang with an empty mapping.
func (e *Entry) AddTarget(lang, text string) {
	e.SetTarget(lang, Target{Text: text, Tokens: Tokenize(text)})
}

// Apply stores the outcome of annotating lang. Text follows tokens that
// changed. When the source tokens changed, the mappings of every other
// language point at stale indices and are cleared; their languages are
// returned.
func (e *Entry) Apply(lang string, source, target []string, mapping []Pair) []string {
	var cleared []string
	if !slices.Equal(source, e.Source.Tokens) {
		e.Source.Tokens = source
		e.Source.Text = JoinTokens(source)
		for _, other := range e.Languages() {
			t := e.Targets[other]
			if other == lang || len(t.Mapping) == 0 {
				continue
			}
			t.Mapping = nil
			e.Targets[other] = t
			cleared = append(cleared, other)
		}
	}

	t := e.Targets[lang]
	if t.Text == "" || !slices.Equal(target, t.Tokens) {
		t.Text = JoinTokens(target)
	}
	t.Tokens = target
	t.Mapping = mapping
	e.SetTarget(lang, t)
	return cleared
}

// Validate checks that every mapping index points at an existing token.
func (e Entry) Validate() error {
	if e.SourceLang == "" {
		return fmt.Errorf("source language is required")
	}
	for _, lang := range e.Languages() {
		t := e.Targets[lang]
		for i, p := range t.Mapping {
			if err := p.A.within(len(e.Source.Tokens)); err != nil {
				return fmt.Errorf("target %q mapping[%d] source side: %w", lang, i, err)
			}
			if err := p.B.within(len(t.Tokens)); err != nil {
				return fmt.Errorf("target %q mapping[%d] target side: %w", lang, i, err)
			}
		}
	}
	return nil
}

// Group is a set of token indices. A group with exactly one member encodes
// as a bare JSON integer; any other size encodes as a list.
type Group []int

func (g Group) within(n int) error {
	for _, idx := range g {
		if idx < 0 || idx >= n {
			return fmt.Errorf("index %d out of range [0,%d)", idx, n)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (g Group) MarshalJSON() ([]byte, error) {
	if len(g) == 1 {
		return json.Marshal(g[0])
	}
	if g == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(g))
}

// UnmarshalJSON implements json.Unmarshaler. It accepts an integer or a list
// of integers.
func (g *Group) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*g = nil
		return nil
	}

	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		*g = Group{single}
		return nil
	}

	var list []int
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("group must be an integer or a list of integers: %w", err)
	}
	*g = list
	return nil
}

// Pair is one alignment: source indices and target indices. It encodes as a
// two element JSON array.
type Pair struct {
	A Group
	B Group
}

// MarshalJSON implements json.Marshaler.
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Group{p.A, p.B})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pair) UnmarshalJSON(data []byte) error {
	var raw []Group
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("mapping pair: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("mapping pair must have 2 groups, got %d", len(raw))
	}
	p.A, p.B = raw[0], raw[1]
	return nil
}
