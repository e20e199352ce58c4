package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"internscout/internal/merge"
	"internscout/internal/report"
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Merge all run snapshots into one report",
	Long:  "Reads every run snapshot in the output directory, deduplicates across runs, and writes a single combined HTML report.",
	RunE:  runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	listings, err := report.LoadSnapshots(cfg.OutputDir)
	if err != nil {
		logger.Error("failed to load snapshots", "error", err)
		os.Exit(1)
	}
	if len(listings) == 0 {
		fmt.Println("No run snapshots found. Run `internscout run` first.")
		return nil
	}

	result := merge.Combine(listings, roleNames(cfg))
	path, err := report.WriteCombined(cfg.OutputDir, result, time.Now())
	if err != nil {
		logger.Error("failed to write combined report", "error", err)
		os.Exit(1)
	}

	logger.Info("combined report written",
		"listings", result.Total(),
		"from", len(listings),
		"path", path,
	)
	return nil
}
