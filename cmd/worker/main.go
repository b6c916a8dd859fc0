package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"hooklog/internal/pkg/logger"
	"hooklog/internal/pkg/reporting"
	"hooklog/internal/platform/config"
	"hooklog/internal/platform/database"
	"hooklog/internal/workers"
)

var version = "dev"

func main() {
	var (
		configPath string
		once       bool
	)

	rootCmd := &cobra.Command{
		Use:          "hooklog-worker",
		Short:        "Background retention pruning for captured webhook requests",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(configPath, once)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the YAML config file")
	rootCmd.Flags().BoolVar(&once, "once", false, "prune a single time and exit")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runWorker(configPath string, once bool) error {
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

	pruner := workers.NewPruner(db, cfg.Webhooks.RetentionDays)

	if once {
		result, err := pruner.Prune(ctx)
		if err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		log.Info().
			Int64("requests_deleted", result.Requests).
			Int64("stats_deleted", result.Stats).
			Msg("retention prune complete")
		return nil
	}

	log.Info().
		Int("retention_days", cfg.Webhooks.RetentionDays).
		Dur("interval", cfg.Webhooks.PruneInterval).
		Msg("worker starting")
	pruner.Run(ctx, cfg.Webhooks.PruneInterval)
	return nil
}
