package config

// Storage backend names accepted in StorageConfig.Backend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig selects where the task list is persisted.
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory file postgres"`
	// Key is the name the serialized task list is stored under.
	Key     string `mapstructure:"key" validate:"required"`
	DataDir string `mapstructure:"data_dir" validate:"required_if=Backend file"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is only required when the postgres storage backend is selected.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}
