package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/maxviazov/stock-adjustment-service/internal/handler"
	"github.com/maxviazov/stock-adjustment-service/internal/service"
)

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if migrate && cfg.Storage.Driver == "postgres" {
				if err := runMigrations(ctx, cfg.Postgres.DSN(), "up"); err != nil {
					return err
				}
				log.Info().Msg("migrations applied")
			}

			stores, err := openStores(ctx, cfg, log)
			if err != nil {
				log.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("storage initialization failed")
				return err
			}
			defer stores.Close()

			if cfg.App.Env == "prod" || cfg.App.Env == "staging" {
				gin.SetMode(gin.ReleaseMode)
			}
			r := gin.New()
			r.Use(gin.Recovery())
			handler.Register(r, stores.Pinger,
				service.NewItemService(stores.Items, log),
				service.NewStockService(stores.Stocks, stores.Items, log),
				service.NewAdjustmentService(stores.Adjustments, stores.Stocks, stores.Tx, log),
				log,
			)

			srv := &http.Server{
				Addr:              cfg.App.Addr(),
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Str("driver", cfg.Storage.Driver).Msg("service started")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					log.Error().Err(err).Msg("http server failed")
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownTimeout)*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("graceful shutdown failed")
				return err
			}
			log.Info().Msg("service stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply postgres migrations before serving")
	return cmd
}
