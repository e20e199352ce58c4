// Package report writes per-run snapshots and HTML reports, and reads
// snapshots back for the cross-run combine.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"internscout/internal/merge"
	"internscout/internal/model"
)

// Snapshot is the persisted record of one run's new listings. It is
// self-describing: every listing carries its identity key and first-seen
// timestamp, so combining snapshots needs no access to the live store.
type Snapshot struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Listings    []model.Listing `json:"listings"`
}

const timestampLayout = "2006-01-02_15-04-05"

// WriteRun writes the run's snapshot and HTML report into dir, creating it
// if needed. It returns the paths of the two files.
func WriteRun(dir string, result model.RunResult, now time.Time) (jsonPath, htmlPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating output dir: %w", err)
	}

	stamp := now.Format(timestampLayout)
	jsonPath = filepath.Join(dir, "jobs_"+stamp+".json")
	htmlPath = filepath.Join(dir, "jobs_"+stamp+".html")

	snap := Snapshot{
		RunID:       uuid.NewString(),
		GeneratedAt: now,
		Listings:    merge.Flatten(result),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing snapshot: %w", err)
	}

	html, err := RenderHTML(result, now)
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return "", "", fmt.Errorf("writing report: %w", err)
	}

	return jsonPath, htmlPath, nil
}

// WriteCombined writes the combined historical report into dir and returns
// its path.
func WriteCombined(dir string, result model.RunResult, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(dir, "combined_"+now.Format(timestampLayout)+".html")
	html, err := RenderHTML(result, now)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("writing combined report: %w", err)
	}
	return path, nil
}

// LoadSnapshots reads every jobs_*.json snapshot under dir, oldest first
// (the timestamped names sort chronologically), and returns the flattened
// listings. A missing directory yields no listings and no error.
func LoadSnapshots(dir string) ([]model.Listing, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "jobs_*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	sort.Strings(entries)

	var listings []model.Listing
	for _, path := range entries {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
		}
		listings = append(listings, snap.Listings...)
	}
	return listings, nil
}
