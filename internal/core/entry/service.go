package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/bitext/internal/core/kv"
	"github.com/colonyops/bitext/internal/core/logging"
)

var (
	// ErrNotFound is returned when no entry exists for an id.
	ErrNotFound = errors.New("entry not found")
	// ErrAmbiguous is returned when an id prefix matches several entries.
	ErrAmbiguous = errors.New("entry id is ambiguous")
)

const namespace = "entry"

// shortIDLen is the length of ids shown in listings.
const shortIDLen = 8

// ShortID returns the abbreviated form of id used in listings.
func ShortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// Summary is the listing view of an entry.
type Summary struct {
	ID         string    `json:"id"`
	SourceLang string    `json:"source_lang"`
	Source     string    `json:"source"`
	Languages  []string  `json:"languages"`
	Aligned    int       `json:"aligned"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Service loads and stores entries in a key-value store keyed by entry id.
type Service struct {
	entries *kv.TypedKV[Entry]
	now     func() time.Time
	log     zerolog.Logger
}

// NewService creates an entry service over store.
func NewService(store kv.KV) *Service {
	return &Service{
		entries: kv.Scoped[Entry](store, namespace),
		now:     time.Now,
		log:     logging.Component("entry"),
	}
}

// Get returns the entry stored under id. A missing id yields ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Entry, error) {
	e, err := s.entries.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Entry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}

// Write validates e and stores it under id, stamping its timestamps.
func (s *Service) Write(ctx context.Context, id string, e Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid entry %s: %w", id, err)
	}

	now := s.now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	if err := s.entries.Set(ctx, id, e); err != nil {
		return fmt.Errorf("write entry %s: %w", id, err)
	}

	s.log.Debug().Str("id", id).Int("targets", len(e.Targets)).Msg("entry written")
	return nil
}

// Add stores e under a freshly generated id and returns it.
func (s *Service) Add(ctx context.Context, e Entry) (string, error) {
	id := uuid.NewString()
	if err := s.Write(ctx, id, e); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes the entry stored under id.
func (s *Service) Delete(ctx context.Context, id string) error {
	has, err := s.entries.Has(ctx, id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	if !has {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.entries.Delete(ctx, id)
}

// Resolve turns a full id or a unique id prefix into a full id.
func (s *Service) Resolve(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	ids, err := s.entries.Keys(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve entry %s: %w", ref, err)
	}

	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d entries", ErrAmbiguous, ref, len(matches))
	}
}

// List returns a summary of every stored entry ordered by id.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.entries.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		e, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		aligned := 0
		for _, t := range e.Targets {
			aligned += len(t.Mapping)
		}

		out = append(out, Summary{
			ID:         id,
			SourceLang: e.SourceLang,
			Source:     e.Source.Text,
			Languages:  e.Languages(),
			Aligned:    aligned,
			UpdatedAt:  e.UpdatedAt,
		})
	}
	return out, nil
}
