package entry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrNoLanguage is returned when a block file has no [lang] header.
var ErrNoLanguage = errors.New("no language header found")

// langHeader matches a block header line such as "[fr]" or "[pt-br]".
var langHeader = regexp.MustCompile(`^\[([a-z0-9-]*)\]$`)

// LangText is one block of a block file: a language and its text.
type LangText struct {
	Lang string
	Text string
}

// ReadBlocks parses text laid out as
//
//	[fr]
//	Le chat
//	mange.
//	[en]
//	The cat eats.
//
// Lines before the first header are ignored. A block's text keeps its inner
// newlines; surrounding blank lines are trimmed and blocks with no text are
// skipped. A language may appear only once.
func ReadBlocks(r io.Reader) ([]LangText, error) {
	var (
		blocks []LangText
		lines  []string
		lang   string
		inside bool
		seen   = map[string]bool{}
	)

	flush := func() error {
		text := strings.TrimSpace(strings.Join(lines, "\n"))
		lines = lines[:0]
		if !inside || text == "" {
			return nil
		}
		if seen[lang] {
			return fmt.Errorf("language %q appears more than once", lang)
		}
		seen[lang] = true
		blocks = append(blocks, LangText{Lang: lang, Text: text})
		return nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if m := langHeader.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if err := flush(); err != nil {
				return nil, err
			}
			lang, inside = m[1], true
			continue
		}
		if inside {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read blocks: %w", err)
	}
	if !inside {
		return nil, ErrNoLanguage
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, errors.New("no text found under any language header")
	}
	return blocks, nil
}

// FromBlocks builds an entry whose source is the first block and whose
// targets are the rest.
func FromBlocks(blocks []LangText, tokenize Tokenizer) (Entry, error) {
	if len(blocks) == 0 {
		return Entry{}, ErrNoLanguage
	}
	if tokenize == nil {
		tokenize = Tokenize
	}

	e := New(blocks[0].Lang, blocks[0].Text)
	for _, b := range blocks[1:] {
		e.AddTarget(b.Lang, b.Text)
	}
	e.Retokenize(tokenize)
	return e, nil
}
