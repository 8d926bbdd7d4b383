// Package memory provides a process-local key-value store. Nothing survives a
// restart; it backs the "memory" storage backend and stands in for real
// storage in tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/phrazzld/tasklist/internal/store"
)

// KVStore is a map-backed store.KeyValueStore safe for concurrent use.
type KVStore struct {
	mu      sync.RWMutex
	entries map[string]string

	// setErr, when non-nil, is returned by every Set (test hook).
	setErr error
	// writes counts successful Set calls.
	writes int
}

// NewKVStore returns an empty KVStore.
func NewKVStore() *KVStore {
	return &KVStore{entries: map[string]string{}}
}

var _ store.KeyValueStore = (*KVStore)(nil)

// Get implements store.KeyValueStore.
func (s *KVStore) Get(_ context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, store.ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	return v, ok, nil
}

// Set implements store.KeyValueStore.
func (s *KVStore) Set(_ context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return store.ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = value
	s.writes++
	return nil
}

// FailWrites makes every subsequent Set return err; nil restores normal behavior.
func (s *KVStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr = err
}

// Writes returns how many Set calls have succeeded.
func (s *KVStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
