package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"internscout/internal/model"
	"internscout/internal/notifier"
	"internscout/internal/pipeline"
	"internscout/internal/store"
)

var (
	runNoEmail bool
	runCheck   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scrape cycle, then exit",
	Long:  "One-shot cycle: scrape every configured source once, report what is new, and exit. With --check nothing is persisted or written to disk.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runNoEmail, "no-email", false, "log new listings instead of emailing them")
	runCmd.Flags().BoolVar(&runCheck, "check", false, "do not mark listings as seen and do not write reports")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var seenStore model.SeenStore
	if runCheck {
		logger.Info("check mode: no listings will be marked as seen")
		seenStore = store.NewNopStore()
	} else {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			logger.Error("failed to create data dir", "error", err)
			os.Exit(1)
		}

		// A one-shot run writes the same store as the daemon; don't
		// interleave with a running instance.
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

		seenStore, err = store.Open(ctx, cfg.Store.Backend, cfg.Store.DSN, cfg.DataDir)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer seenStore.Close()
	}

	var n model.Notifier
	if runNoEmail {
		n = notifier.NewLogNotifier(logger)
	} else {
		n = setupNotifier(cfg, logger)
	}

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
		n,
		cfg.OutputDir,
		cfg.Retention,
		!runCheck,
		logger,
	)

	if _, _, err := p.Run(ctx, time.Now()); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("run complete")
	return nil
}
