package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fplmetric/fplmetric/internal/app"
	"github.com/fplmetric/fplmetric/internal/config"
	"github.com/fplmetric/fplmetric/internal/observability"
	"github.com/fplmetric/fplmetric/internal/platform/logging"
	"github.com/fplmetric/fplmetric/internal/usecase"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "fetch and map the snapshot without writing it")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall run deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db, err := app.OpenDB(cfg)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	repo := app.NewSnapshotRepository(cfg, db)
	collector := usecase.NewCollectorService(app.NewFPLClient(cfg, logger), repo, logger)

	summary, err := collector.Run(ctx, usecase.RunOptions{DryRun: *dryRun})
	if err != nil {
		logger.ErrorContext(ctx, "collect run failed", "error", err)
		_ = shutdownUptrace(context.Background())
		os.Exit(1)
	}

	logger.InfoContext(ctx, "collect run finished",
		"run_id", summary.RunID,
		"snapshot_time", summary.SnapshotTime,
		"appended", summary.Appended,
		"dropped", summary.Dropped,
		"dry_run", summary.DryRun,
	)

	if err := shutdownUptrace(context.Background()); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}
}
