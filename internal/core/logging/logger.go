package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// ForEntry creates a component logger pinned to one entry and language.
func ForEntry(name, entryID, lang string) zerolog.Logger {
	return log.With().
		Str("cmp", name).
		Str("entry_id", entryID).
		Str("lang", lang).
		Logger()
}
