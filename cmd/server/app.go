package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist/internal/config"
	"github.com/phrazzld/tasklist/internal/events"
	"github.com/phrazzld/tasklist/internal/service"
	"github.com/phrazzld/tasklist/internal/store"
	"github.com/phrazzld/tasklist/internal/tasklist"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil unless the postgres backend is in use
	db *sql.DB
	kv store.KeyValueStore

	eventEmitter *events.InMemoryEventEmitter
	taskStore    *tasklist.Store
	controller   service.TaskController
}

// newApplication builds the task store, hooks persistence onto it, restores
// the saved list and creates the controller.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	kv store.KeyValueStore,
	db *sql.DB,
) (*application, error) {
	if kv == nil {
		return nil, fmt.Errorf("key-value store cannot be nil")
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		kv:     kv,
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(tasklist.NewPersister(kv, cfg.Storage.Key, logger))

	app.taskStore = tasklist.NewStore(app.eventEmitter, logger)
	tasks := tasklist.Hydrate(ctx, app.taskStore, kv, cfg.Storage.Key, logger)

	var err error
	app.controller, err = service.NewTaskController(app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task controller: %w", err)
	}

	logger.Info("Application initialized",
		"storage_backend", cfg.Storage.Backend,
		"task_count", len(tasks))
	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
			return
		}
		app.logger.Info("Database connection closed")
	}
}
