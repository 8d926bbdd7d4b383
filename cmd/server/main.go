// Package main implements the entry point for the tasklist server, which
// serves a single persisted task list over JSON/HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/tasklist/internal/config"
	"github.com/phrazzld/tasklist/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"Run a database migration command (up, down, reset, status, version) and exit",
	)
	flag.Parse()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()

	if *migrateCmd != "" {
		if err := handleMigrations(ctx, cfg, *migrateCmd, appLogger); err != nil {
			appLogger.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_backend", cfg.Storage.Backend,
		"storage_key", cfg.Storage.Key)
	if cfg.Database.URL != "" {
		appLogger.Debug("Database configuration", "url_present", true)
	}

	return cfg, appLogger, nil
}

// run wires the application and serves until shutdown.
func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	kv, db, err := setupStorage(ctx, cfg, appLogger)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, appLogger, kv, db)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
