package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var defaults = map[string]any{
	"app.name":             "stock-adjustment-service",
	"app.version":          "0.1.0",
	"app.env":              "prod",
	"app.port":             8080,
	"app.shutdown_timeout": 10,

	"logger.level":  "",
	"logger.format": "",

	"storage.driver": "postgres",

	"postgres.host":                "localhost",
	"postgres.port":                5432,
	"postgres.sslmode":             "disable",
	"postgres.max_conns":           10,
	"postgres.min_conns":           1,
	"postgres.max_conn_lifetime":   3600,
	"postgres.max_conn_idle_time":  300,
	"postgres.health_check_period": 30,

	"sqlite.path": "data/adjustments.db",
}

// Load reads path (YAML), applies APP_* environment overrides and validates the result.
// Postgres credentials are only required when the postgres driver is selected.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	// secrets usually come from the environment under one of several common names
	_ = v.BindEnv("postgres.user", "APP_POSTGRES_USER", "POSTGRES_USER", "DB_USER")
	_ = v.BindEnv("postgres.password", "APP_POSTGRES_PASSWORD", "POSTGRES_PASSWORD", "DB_PASSWORD")
	_ = v.BindEnv("postgres.db", "APP_POSTGRES_DB", "POSTGRES_DB", "DB_NAME")

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Logger.Env == "" {
		config.Logger.Env = config.App.Env
	}
	if config.Logger.ServiceName == "" {
		config.Logger.ServiceName = config.App.Name
	}
	if config.Logger.ServiceVersion == "" {
		config.Logger.ServiceVersion = config.App.Version
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks struct tags section by section.
func (c *Config) Validate() error {
	v := validator.New()
	var errs []error
	if err := v.Struct(c.App); err != nil {
		errs = append(errs, fmt.Errorf("app: %w", err))
	}
	if err := v.Struct(c.Storage); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}
	if c.Storage.Driver == "postgres" {
		if err := v.Struct(c.Postgres); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	if c.Storage.Driver == "sqlite" && c.SQLite.Path == "" {
		errs = append(errs, errors.New("sqlite: path is required"))
	}
	return errors.Join(errs...)
}
