package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"hooklog/internal/api"
	"hooklog/internal/api/handlers"
	"hooklog/internal/api/middleware"
	"hooklog/internal/pkg/logger"
	"hooklog/internal/pkg/reporting"
	"hooklog/internal/platform/config"
	"hooklog/internal/platform/database"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "hooklog-server",
		Short:        "Webhook capture and logging server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the YAML config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Logging)

	if err := reporting.Init(cfg.Sentry, version); err != nil {
		log.Warn().Err(err).Msg("sentry disabled")
	}
	defer reporting.Flush(2 * time.Second)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	router := api.NewRouter(&api.Dependencies{
		WebhookHandler:   handlers.NewWebhookHandler(cfg.Webhooks.EndpointRetries, cfg.Server.PublicURL),
		AnalyticsHandler: handlers.NewAnalyticsHandler(cfg.Query),
		IngestHandler:    handlers.NewIngestHandler(cfg.Ingest),
		HealthHandler:    handlers.NewHealthHandler(db),
		StoreMiddleware:  middleware.NewStoreMiddleware(db),
		Config:           cfg,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("driver", cfg.Database.Driver).
			Str("version", version).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
