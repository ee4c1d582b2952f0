// Package kv provides a generic thread-safe in-memory key-value store with
// ordered keys.
package kv

import (
	"cmp"
	"slices"
	"sync"
)

// Store is a thread-safe map whose keys can be listed in order.
type Store[K cmp.Ordered, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// New creates an empty store.
func New[K cmp.Ordered, V any]() *Store[K, V] {
	return &Store[K, V]{data: make(map[K]V)}
}

// Get retrieves a value by key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

// Set stores a value by key.
func (s *Store[K, V]) Set(key K, value V) {
	s.Upsert(key, func(V, bool) V { return value })
}

// Upsert replaces the value for key with fn(old, ok) under a single lock.
func (s *Store[K, V]) Upsert(key K, fn func(old V, ok bool) V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.data[key]
	s.data[key] = fn(old, ok)
}

// Delete removes a key and reports whether it was present.
func (s *Store[K, V]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	delete(s.data, key)
	return ok
}

// Len returns the number of items in the store.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Keys returns the keys accepted by keep in ascending order. A nil keep
// accepts every key.
func (s *Store[K, V]) Keys(keep func(K) bool) []K {
	s.mu.RLock()
	keys := make([]K, 0, len(s.data))
	for k := range s.data {
		if keep == nil || keep(k) {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()

	slices.Sort(keys)
	return keys
}
