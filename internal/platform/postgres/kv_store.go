package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/store"
)

const entity = "kv_entry"

// PostgresKVStore implements store.KeyValueStore on the kv_entries table.
type PostgresKVStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresKVStore creates a PostgresKVStore.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresKVStore(db store.DBTX, logger *slog.Logger) *PostgresKVStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresKVStore{
		db:     db,
		logger: logger.With(slog.String("component", "kv_store")),
	}
}

// Ensure PostgresKVStore implements store.KeyValueStore interface
var _ store.KeyValueStore = (*PostgresKVStore)(nil)

// Get implements store.KeyValueStore.Get.
func (s *PostgresKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, store.ErrEmptyKey
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT value
		FROM kv_entries
		WHERE key = $1
	`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("key not found", slog.String("key", key))
			return "", false, nil
		}

		log.Error("failed to read key",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return "", false, store.NewStoreError(entity, "get", "failed to read value", MapError(err))
	}

	return value, true, nil
}

// Set implements store.KeyValueStore.Set as an upsert.
func (s *PostgresKVStore) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return store.ErrEmptyKey
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		log.Error("failed to write key",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return store.NewStoreError(entity, "set", "failed to write value", MapError(err))
	}

	log.Debug("key written",
		slog.String("key", key),
		slog.Int("bytes", len(value)))
	return nil
}
