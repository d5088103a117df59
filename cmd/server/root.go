package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxviazov/stock-adjustment-service/internal/config"
	"github.com/maxviazov/stock-adjustment-service/internal/logger"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
	"github.com/maxviazov/stock-adjustment-service/internal/repository/memory"
	"github.com/maxviazov/stock-adjustment-service/internal/repository/postgres"
	"github.com/maxviazov/stock-adjustment-service/internal/repository/sqlite"
)

// newRootCmd builds the CLI: serve runs the HTTP API, migrate manages the postgres schema.
func newRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "stock-adjustment-service",
		Short:        "Inventory stock adjustment API",
		Version:      ver,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringP("config", "c", "config.yaml", "path to the YAML config file")
	cmd.AddCommand(newServeCmd(), newMigrateCmd())
	return cmd
}

// bootstrap loads config and builds the application logger.
func bootstrap(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config loading failed: %w", err)
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("logger initialization failed: %w", err)
	}
	return cfg, appLogger, nil
}

// openStores connects the storage driver selected by cfg.Storage.Driver.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.Stores, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		repo, err := repository.New(ctx, &cfg.Postgres, &log)
		if err != nil {
			return repository.Stores{}, err
		}
		stores := postgres.NewStores(repo.Pool())
		stores.Close = repo.Close
		return stores, nil
	case "sqlite":
		db, err := sqlite.Open(&cfg.SQLite, log)
		if err != nil {
			return repository.Stores{}, err
		}
		return db.Stores(), nil
	case "memory":
		log.Warn().Msg("using in-memory storage; data is lost on exit")
		return memory.New().Stores(), nil
	default:
		return repository.Stores{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
