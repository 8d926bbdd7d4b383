package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist/internal/config"
	"github.com/phrazzld/tasklist/internal/platform/postgres"
)

// handleMigrations runs a single migration command against the configured
// database. Only the postgres backend has a schema.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Storage.Backend != config.BackendPostgres {
		return fmt.Errorf("migrations require the %s storage backend, got %q",
			config.BackendPostgres, cfg.Storage.Backend)
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", "error", err)
		}
	}()

	logger.Info("Executing migrations", "command", command)
	return postgres.RunMigrations(ctx, db, command, logger)
}
