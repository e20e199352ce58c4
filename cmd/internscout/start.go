package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"internscout/internal/pipeline"
	"internscout/internal/scheduler"
	"internscout/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scraping daemon",
	Long:  "Start the scheduler daemon; blocks until SIGINT/SIGTERM. Only one instance may run per data directory.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.ScheduleInterval.String(),
		"roles", len(cfg.Roles),
		"scrapers", cfg.Scrapers,
		"max_age", cfg.MaxAge.String(),
		"store", cfg.Store.Backend,
	)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}

	// A second daemon on the same data dir would race on the seen store
	// and double-notify; the lock file keeps runs exclusive.
	lock := flock.New(filepath.Join(cfg.DataDir, "internscout.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		logger.Error("failed to acquire lock", "error", err)
		os.Exit(1)
	}
	if !locked {
		logger.Error("another internscout instance is already running", "lock", lock.Path())
		os.Exit(1)
	}
	defer lock.Unlock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seenStore, err := store.Open(ctx, cfg.Store.Backend, cfg.Store.DSN, cfg.DataDir)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer seenStore.Close()

	client := newScrapeClient(cfg)
	scrapers := buildScrapers(cfg, client, logger)
	if len(scrapers) == 0 {
		logger.Error("no scrapers to run")
		os.Exit(1)
	}

	p := pipeline.New(
		scrapers,
		buildClassifier(cfg),
		buildRecencyFilter(cfg),
		seenStore,
		setupNotifier(cfg, logger),
		cfg.OutputDir,
		cfg.Retention,
		true,
		logger,
	)

	sched := scheduler.NewScheduler(p, cfg.ScheduleInterval, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
