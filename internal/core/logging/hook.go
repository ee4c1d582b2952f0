package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts entry_id and lang from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if id := GetEntryID(ctx); id != "" {
		e.Str("entry_id", id)
	}

	if lang := GetLang(ctx); lang != "" {
		e.Str("lang", lang)
	}
}
