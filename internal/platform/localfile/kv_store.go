// Package localfile persists key-value entries in a single JSON document on
// disk. It backs the "file" storage backend, the server-side counterpart of
// browser local storage.
package localfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/phrazzld/tasklist/internal/store"
)

// FileName is the name of the document inside the data directory.
const FileName = "store.json"

const entity = "kv_entry"

// document is the on-disk layout.
type document struct {
	Entries map[string]string `json:"entries"`
}

// KVStore is a store.KeyValueStore backed by one JSON file.
// All entries are held in memory and the whole document is rewritten on every Set.
type KVStore struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
	logger  *slog.Logger
}

var _ store.KeyValueStore = (*KVStore)(nil)

// NewKVStore opens (or creates) the store in dataDir.
//
// A missing file is an empty store. A file that is not a valid document is
// logged and treated as empty too; it is replaced by the next Set.
func NewKVStore(dataDir string, logger *slog.Logger) (*KVStore, error) {
	if strings.TrimSpace(dataDir) == "" {
		return nil, store.NewStoreError(entity, "open", "data directory is required", store.ErrInvalidEntity)
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, store.NewStoreError(entity, "open", "failed to create data directory", err)
	}

	s := &KVStore{
		path:    filepath.Join(dataDir, FileName),
		entries: map[string]string{},
		logger:  logger.With(slog.String("component", "localfile_store")),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *KVStore) Path() string {
	return s.path
}

func (s *KVStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("no store file yet", slog.String("path", s.path))
			return nil
		}
		return store.NewStoreError(entity, "open", "failed to read store file",
			fmt.Errorf("%w: %v", store.ErrUnavailable, err))
	}

	var loaded document
	if err := json.Unmarshal(b, &loaded); err != nil {
		s.logger.Warn("store file is not valid JSON, starting empty",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return nil
	}
	if loaded.Entries != nil {
		s.entries = loaded.Entries
	}

	s.logger.Debug("store file loaded",
		slog.String("path", s.path),
		slog.Int("entries", len(s.entries)))
	return nil
}

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

// Set implements store.KeyValueStore. The in-memory entry only changes when
// the file has been written successfully.
func (s *KVStore) Set(_ context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return store.ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(s.entries)+1)
	for k, v := range s.entries {
		next[k] = v
	}
	next[key] = value

	if err := s.saveLocked(next); err != nil {
		return store.NewStoreError(entity, "set", "failed to write store file", err)
	}
	s.entries = next
	return nil
}

// saveLocked writes entries to a temp file in the same directory and renames
// it over the store file, so readers never see a partial document.
func (s *KVStore) saveLocked(entries map[string]string) error {
	b, err := json.MarshalIndent(document{Entries: entries}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename has happened.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
