package entry

import "strings"

// Spacing markers stand in for the whitespace between words when a sentence
// is tokenized with TokenizeSpacing, so the original layout can be rebuilt.
const (
	MarkerSpace   = "<sp>"
	MarkerNoSpace = "<nsp>"
	MarkerNewline = "<nl>"
)

// DetokenizeStyle selects how markers are rendered back into text.
type DetokenizeStyle int

const (
	// Human renders markers as the layout a reader expects: <nsp> joins
	// the neighbouring words.
	Human DetokenizeStyle = iota
	// NLP keeps word boundaries visible: <nsp> becomes "_".
	NLP
)

var markerText = map[DetokenizeStyle]map[string]string{
	Human: {MarkerSpace: " ", MarkerNoSpace: "", MarkerNewline: "\n"},
	NLP:   {MarkerSpace: " ", MarkerNoSpace: "_", MarkerNewline: "\n"},
}

// spacingRunes maps the characters TokenizeSpacing splits on to markers.
var spacingRunes = map[rune]string{
	' ':  MarkerSpace,
	'_':  MarkerNoSpace,
	'\n': MarkerNewline,
}

// IsMarker reports whether tok is a spacing marker.
func IsMarker(tok string) bool {
	_, ok := markerText[Human][tok]
	return ok
}

// TokenizeSpacing splits s into words and spacing markers. Every space, "_"
// and newline becomes its own marker token, so "l'_homme est\nlà" yields
// [l' <nsp> homme <sp> est <nl> là].
func TokenizeSpacing(s string) []string {
	var (
		toks  []string
		start = -1
	)
	for i, r := range s {
		marker, ok := spacingRunes[r]
		if !ok {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			toks = append(toks, s[start:i])
			start = -1
		}
		toks = append(toks, marker)
	}
	if start >= 0 {
		toks = append(toks, s[start:])
	}
	return toks
}

// Detokenize concatenates toks, replacing markers according to style.
// Words are not separated unless a marker says so.
func Detokenize(toks []string, style DetokenizeStyle) string {
	repl := markerText[style]
	var b strings.Builder
	for _, t := range toks {
		if r, ok := repl[t]; ok {
			b.WriteString(r)
			continue
		}
		b.WriteString(t)
	}
	return b.String()
}

// ClearMarkers returns toks without spacing markers.
func ClearMarkers(toks []string) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if !IsMarker(t) {
			out = append(out, t)
		}
	}
	return out
}

// Tokenizer turns a sentence into tokens.
type Tokenizer func(string) []string

// Retokenize rebuilds the source and every target token list from their
// text with fn. Mappings are dropped since their indices no longer apply.
func (e *Entry) Retokenize(fn Tokenizer) {
	e.Source.Tokens = fn(e.Source.Text)
	for _, lang := range e.Languages() {
		t := e.Targets[lang]
		t.Tokens = fn(t.Text)
		t.Mapping = nil
		e.Targets[lang] = t
	}
}
