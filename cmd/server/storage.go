package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist/internal/config"
	"github.com/phrazzld/tasklist/internal/platform/localfile"
	"github.com/phrazzld/tasklist/internal/platform/memory"
	"github.com/phrazzld/tasklist/internal/platform/postgres"
	"github.com/phrazzld/tasklist/internal/store"
)

// setupStorage opens the configured storage backend. The returned *sql.DB is
// non-nil only for postgres and must be closed by the caller.
func setupStorage(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (store.KeyValueStore, *sql.DB, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn("Using in-memory storage; tasks will not survive a restart")
		return memory.NewKVStore(), nil, nil

	case config.BackendFile:
		kv, err := localfile.NewKVStore(cfg.Storage.DataDir, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		logger.Info("Using file storage", "path", kv.Path())
		return kv, nil, nil

	case config.BackendPostgres:
		db, err := setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		logger.Info("Using postgres storage")
		return postgres.NewPostgresKVStore(db, logger), db, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
