package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. TASKLIST_SERVER_PORT.
const EnvPrefix = "TASKLIST"

// ConfigDirEnv names an extra directory searched for config.yaml.
const ConfigDirEnv = "TASKLIST_CONFIG_DIR"

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.key", "tasks")
	v.SetDefault("storage.data_dir", ".tasklist")
	v.SetDefault("database.url", "")
}

// Validate runs struct validation plus the cross-section rules on cfg.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(validateStorageDatabase, Config{})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// validateStorageDatabase requires a database URL when the postgres backend is selected.
func validateStorageDatabase(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Storage.Backend == BackendPostgres && cfg.Database.URL == "" {
		sl.ReportError(cfg.Database.URL, "Database.URL", "URL", "required_with_postgres", "")
	}
}
