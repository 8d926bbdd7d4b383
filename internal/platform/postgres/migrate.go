package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Supported migration commands.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateReset   = "reset"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

var migrateMu sync.Mutex

var migrationCommands = map[string]func(ctx context.Context, db *sql.DB, dir string) error{
	MigrateUp: func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	},
	MigrateDown: func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.DownContext(ctx, db, dir)
	},
	MigrateReset: func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.ResetContext(ctx, db, dir)
	},
	MigrateStatus: func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.StatusContext(ctx, db, dir)
	},
	MigrateVersion: func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.VersionContext(ctx, db, dir)
	},
}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress messages at info level.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level. It does not exit; goose returns the error to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	return RunMigrations(ctx, db, MigrateUp, logger)
}

// RunMigrations runs a goose command against the embedded migrations.
// Goose keeps its configuration in package globals, so calls are serialized.
func RunMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	run, ok := migrationCommands[command]
	if !ok {
		return fmt.Errorf(
			"unknown migration command: %s (expected up, down, reset, status, or version)",
			command,
		)
	}

	if logger == nil {
		logger = slog.Default()
	}
	migrationLogger := logger.With(
		slog.String("component", "migrations"),
		slog.String("command", command))

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetLogger(&slogGooseLogger{logger: migrationLogger})
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	start := time.Now()
	if err := run(ctx, db, migrationsDir); err != nil {
		migrationLogger.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	migrationLogger.Info("migration command completed",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
