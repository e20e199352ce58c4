// Package pipeline owns one full scrape cycle: fetch from every source,
// normalize, classify, recency-filter, dedup against the seen store, group
// by role, write the snapshot and report, notify, purge.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"internscout/internal/classify"
	"internscout/internal/merge"
	"internscout/internal/model"
	"internscout/internal/normalize"
	"internscout/internal/recency"
	"internscout/internal/report"
)

// Pipeline wires the run cycle's collaborators together.
type Pipeline struct {
	scrapers     []model.SourceScraper
	classifier   *classify.Classifier
	recency      recency.Filter
	store        model.SeenStore
	notifier     model.Notifier
	outputDir    string
	retention    time.Duration
	writeReports bool
	logger       *slog.Logger
}

// New creates a pipeline wired with all its dependencies. writeReports is
// false in check mode, where nothing should land on disk.
func New(
	scrapers []model.SourceScraper,
	classifier *classify.Classifier,
	recencyFilter recency.Filter,
	store model.SeenStore,
	notifier model.Notifier,
	outputDir string,
	retention time.Duration,
	writeReports bool,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		scrapers:     scrapers,
		classifier:   classifier,
		recency:      recencyFilter,
		store:        store,
		notifier:     notifier,
		outputDir:    outputDir,
		retention:    retention,
		writeReports: writeReports,
		logger:       logger,
	}
}

// sourceResult is what one scraper's goroutine hands back: its surviving
// candidates plus the per-source tallies.
type sourceResult struct {
	candidates []model.Listing
	fetched    int
	dropped    int
	noRole     int
	stale      int
	failed     bool
}

// Run executes one cycle against now. Sources are fetched concurrently and
// a failing source never aborts the others; a store failure aborts the
// whole run, since without the store no duplicate guarantee holds.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (model.RunResult, model.RunStats, error) {
	stats := model.RunStats{Sources: len(p.scrapers)}

	results := make(chan sourceResult, len(p.scrapers))
	var g errgroup.Group
	for _, s := range p.scrapers {
		s := s
		g.Go(func() error {
			records, err := s.Scrape(ctx)
			if err != nil {
				p.logger.Error("scrape failed", "source", s.Name(), "error", err)
				results <- sourceResult{failed: true}
				return nil // best effort: a failing source must not cancel siblings
			}
			res := p.processSource(s.Name(), records, now)
			results <- res
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors, failures are counted
	close(results)

	var candidates []model.Listing
	for res := range results {
		if res.failed {
			stats.SourceErrors++
			continue
		}
		stats.Fetched += res.fetched
		stats.Dropped += res.dropped
		stats.NoRole += res.noRole
		stats.Stale += res.stale
		candidates = append(candidates, res.candidates...)
	}

	result, duplicates, err := merge.Run(ctx, candidates, p.store, now, p.classifier.Roles())
	if err != nil {
		return model.RunResult{}, stats, err
	}
	stats.Duplicates = duplicates
	stats.New = result.Total()

	if p.writeReports {
		jsonPath, htmlPath, err := report.WriteRun(p.outputDir, result, now)
		if err != nil {
			p.logger.Error("writing report failed", "error", err)
		} else {
			p.logger.Info("run report written", "snapshot", jsonPath, "report", htmlPath)
		}
	}

	if err := p.notifier.Notify(result); err != nil {
		p.logger.Error("notification failed", "error", err)
	}

	// Purge runs after insertion, never during: identities recorded this
	// run are by definition inside the retention window.
	if removed, err := p.store.Purge(ctx, p.retention); err != nil {
		p.logger.Warn("purge failed", "error", err)
	} else if removed > 0 {
		p.logger.Info("purged old identities", "removed", removed)
	}

	p.logger.Info("run complete",
		"sources", stats.Sources,
		"source_errors", stats.SourceErrors,
		"fetched", stats.Fetched,
		"dropped", stats.Dropped,
		"no_role", stats.NoRole,
		"stale", stats.Stale,
		"duplicates", stats.Duplicates,
		"new", stats.New,
	)

	return result, stats, nil
}

// processSource runs the per-record stages for one source's raw records.
// Every record either becomes a candidate or increments exactly one drop
// counter; nothing disappears silently.
func (p *Pipeline) processSource(source string, records []model.RawRecord, now time.Time) sourceResult {
	res := sourceResult{fetched: len(records)}

	for _, rec := range records {
		listing, err := p.processRecord(rec, now)
		switch {
		case err == nil:
			res.candidates = append(res.candidates, listing)
		case errors.Is(err, errNoRole):
			res.noRole++
		case errors.Is(err, errStale):
			res.stale++
		default:
			var nerr *model.NormalizationError
			if errors.As(err, &nerr) {
				p.logger.Debug("record dropped", "source", source, "title", rec.Title, "reason", nerr.Reason)
			}
			res.dropped++
		}
	}

	p.logger.Info("source processed",
		"source", source,
		"fetched", res.fetched,
		"dropped", res.dropped,
		"no_role", res.noRole,
		"stale", res.stale,
		"candidates", len(res.candidates),
	)
	return res
}

var (
	errNoRole = errors.New("no role matched")
	errStale  = errors.New("listing too old")
)

func (p *Pipeline) processRecord(rec model.RawRecord, now time.Time) (model.Listing, error) {
	listing, err := normalize.Record(rec)
	if err != nil {
		return model.Listing{}, err
	}

	roles := p.classifier.Classify(listing.Title)
	if len(roles) == 0 {
		return model.Listing{}, errNoRole
	}
	listing.MatchedRoles = roles

	outcome, postedAt := p.recency.Check(rec.PostedText, now)
	if !p.recency.Admit(outcome) {
		return model.Listing{}, errStale
	}
	listing.PostedAt = postedAt

	return listing, nil
}
