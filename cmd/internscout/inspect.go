package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"internscout/internal/inspect"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Browse scraped listings interactively (TUI)",
	Long:  "Shows the source picker TUI, then fetches that source and launches the split-pane inspect view: everything the source returned on the left, what survived filtering on the right. Nothing is marked as seen.",
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := newScrapeClient(cfg)
	classifier := buildClassifier(cfg)
	filter := buildRecencyFilter(cfg)

	for {
		choice, err := inspect.RunSourcePicker(cfg.Scrapers)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return nil
		}
		if choice < 0 {
			return nil
		}

		// No retry wrapper here: inspect is interactive, the user can
		// just pick the source again on a transient failure.
		s, ok := createScraper(cfg.Scrapers[choice], client, cfg, logger)
		if !ok {
			fmt.Printf("Unsupported scraper: %s\n", cfg.Scrapers[choice])
			continue
		}

		records, err := inspect.RunLoader(s.Name(), s.Scrape)
		if err != nil {
			fmt.Printf("Error fetching listings: %v\n", err)
			continue
		}

		evals := inspect.Evaluate(records, classifier, filter, time.Now())

		wantQuit, err := inspect.RunInspectTUI(evals)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}
