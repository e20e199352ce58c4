// Package retry wraps a scraper with transient-failure retries.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"internscout/internal/model"
)

// RetryScraper is a decorator that retries transient failures with
// exponential backoff and jitter before delegating to the wrapped scraper.
type RetryScraper struct {
	inner      model.SourceScraper
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryScraper wraps a scraper with retry logic. maxRetries is the
// number of additional attempts after the first failure; baseDelay is the
// delay before the first retry, doubled on each subsequent one.
func NewRetryScraper(inner model.SourceScraper, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryScraper {
	return &RetryScraper{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Name returns the wrapped scraper's name.
func (s *RetryScraper) Name() string { return s.inner.Name() }

// Scrape attempts to fetch raw records, retrying on transient errors.
func (s *RetryScraper) Scrape(ctx context.Context) ([]model.RawRecord, error) {
	records, err := s.inner.Scrape(ctx)
	if err == nil {
		return records, nil
	}

	if !isRetryable(err) {
		return nil, err
	}

	lastErr := err
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		delay := s.backoffDelay(attempt, lastErr)

		s.logger.Warn("retrying after transient error",
			"source", s.inner.Name(),
			"attempt", attempt,
			"max_retries", s.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		records, err = s.inner.Scrape(ctx)
		if err == nil {
			return records, nil
		}

		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error carries a Retry-After duration (HTTP 429), that takes
// precedence.
func (s *RetryScraper) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := s.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return delay
}

// isRetryable returns true if the error represents a transient failure
// worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation — never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 {
			return true
		}
		if httpErr.StatusCode >= 500 {
			return true
		}
		// 4xx (not 429) — not retryable.
		return false
	}

	// Non-HTTP errors (network, DNS, etc.) — retryable.
	return true
}
