package logging

import "context"

type contextKey string

const (
	entryIDKey contextKey = "entry_id"
	langKey    contextKey = "lang"
)

// WithEntryID adds an entry ID to the context.
func WithEntryID(ctx context.Context, entryID string) context.Context {
	return context.WithValue(ctx, entryIDKey, entryID)
}

// WithLang adds the target language being annotated to the context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey, lang)
}

// GetEntryID retrieves the entry ID from the context.
// Returns empty string if not present.
func GetEntryID(ctx context.Context) string {
	if id, ok := ctx.Value(entryIDKey).(string); ok {
		return id
	}
	return ""
}

// GetLang retrieves the target language from the context.
// Returns empty string if not present.
func GetLang(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey).(string); ok {
		return lang
	}
	return ""
}
