package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/maxviazov/stock-adjustment-service/migrations"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Manage the postgres schema with goose",
		Long: "Applies the embedded goose migrations to the configured postgres database.\n" +
			"The sqlite driver migrates itself on startup and memory needs no schema.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("migrate supports the postgres driver only, configured %q", cfg.Storage.Driver)
			}
			if err := runMigrations(cmd.Context(), cfg.Postgres.DSN(), args[0]); err != nil {
				log.Error().Err(err).Str("command", args[0]).Msg("migration failed")
				return err
			}
			log.Info().Str("command", args[0]).Msg("migration finished")
			return nil
		},
	}
	return cmd
}

func runMigrations(ctx context.Context, dsn, command string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return migrations.Run(ctx, db, command)
}
