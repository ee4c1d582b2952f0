// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hay-kot/criterio"
)

// langPattern accepts short language tags such as "fr", "en", "pt-BR" or
// "zh-Hant".
var langPattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)

// Lang validates a language tag.
func Lang(lang string) error {
	if lang == "" {
		return fmt.Errorf("language is required")
	}
	if !langPattern.MatchString(lang) {
		return fmt.Errorf("invalid language tag %q", lang)
	}
	return nil
}

// LangField returns a criterio validator for language tags.
func LangField(field, lang string) error {
	return criterio.Run(field, lang, Lang)
}

// Sentence validates that text contains at least one token.
func Sentence(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("sentence is required")
	}
	return nil
}

// SentenceField returns a criterio validator for sentences.
func SentenceField(field, text string) error {
	return criterio.Run(field, text, Sentence)
}
