package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/bitext/internal/core/kv"
	memkv "github.com/colonyops/bitext/pkg/kv"
)

// MemoryKV implements kv.KV in process memory. It backs --ephemeral runs and
// tests that do not need SQLite.
type MemoryKV struct {
	data *memkv.Store[string, kv.Entry]
}

var _ kv.KV = (*MemoryKV)(nil)

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: memkv.New[string, kv.Entry]()}
}

// Get retrieves and deserializes a value by key.
// Returns an error wrapping sql.ErrNoRows if the key does not exist.
func (s *MemoryKV) Get(_ context.Context, key string, dest any) error {
	e, ok := s.data.Get(key)
	if !ok {
		return fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}
	if err := json.Unmarshal(e.Value, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

// Set stores a value, keeping the original creation time on overwrite.
func (s *MemoryKV) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	now := time.Now()
	s.data.Upsert(key, func(prev kv.Entry, ok bool) kv.Entry {
		created := now
		if ok {
			created = prev.CreatedAt
		}
		return kv.Entry{Key: key, Value: data, CreatedAt: created, UpdatedAt: now}
	})
	return nil
}

// Delete removes a key.
func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.data.Delete(key)
	return nil
}

// Has returns whether a key exists.
func (s *MemoryKV) Has(_ context.Context, key string) (bool, error) {
	_, ok := s.data.Get(key)
	return ok, nil
}

// ListKeys returns all keys starting with prefix in sorted order.
func (s *MemoryKV) ListKeys(_ context.Context, prefix string) ([]string, error) {
	return s.data.Keys(func(k string) bool { return strings.HasPrefix(k, prefix) }), nil
}

// GetRaw retrieves a raw KV entry with metadata.
func (s *MemoryKV) GetRaw(_ context.Context, key string) (kv.Entry, error) {
	e, ok := s.data.Get(key)
	if !ok {
		return kv.Entry{}, fmt.Errorf("kv get raw %q: %w", key, sql.ErrNoRows)
	}
	return e, nil
}
