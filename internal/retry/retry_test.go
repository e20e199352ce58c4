package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"internscout/internal/model"
)

type scriptedScraper struct {
	calls   int
	results []error
	records []model.RawRecord
}

func (s *scriptedScraper) Name() string { return "scripted" }

func (s *scriptedScraper) Scrape(context.Context) ([]model.RawRecord, error) {
	err := s.results[s.calls]
	s.calls++
	if err != nil {
		return nil, err
	}
	return s.records, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScrape_SucceedsAfterTransientError(t *testing.T) {
	inner := &scriptedScraper{
		results: []error{errors.New("connection reset"), nil},
		records: []model.RawRecord{{Title: "PM Intern", URL: "https://x.com/job/1"}},
	}
	s := NewRetryScraper(inner, 2, time.Millisecond, discardLogger())

	records, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

func TestScrape_DoesNotRetryClientErrors(t *testing.T) {
	inner := &scriptedScraper{
		results: []error{&model.HTTPError{StatusCode: 404}},
	}
	s := NewRetryScraper(inner, 2, time.Millisecond, discardLogger())

	if _, err := s.Scrape(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1 (4xx must not be retried)", inner.calls)
	}
}

func TestScrape_Retries429And5xx(t *testing.T) {
	inner := &scriptedScraper{
		results: []error{
			&model.HTTPError{StatusCode: 429},
			&model.HTTPError{StatusCode: 503},
			nil,
		},
	}
	s := NewRetryScraper(inner, 2, time.Millisecond, discardLogger())

	if _, err := s.Scrape(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestScrape_ExhaustsRetries(t *testing.T) {
	boom := &model.HTTPError{StatusCode: 500}
	inner := &scriptedScraper{results: []error{boom, boom, boom}}
	s := NewRetryScraper(inner, 2, time.Millisecond, discardLogger())

	_, err := s.Scrape(context.Background())
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 500 {
		t.Fatalf("expected final HTTP 500, got %v", err)
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestBackoffDelay_HonorsRetryAfter(t *testing.T) {
	s := NewRetryScraper(nil, 2, time.Second, discardLogger())
	err := &model.HTTPError{StatusCode: 429, RetryAfter: 42 * time.Second}
	if got := s.backoffDelay(1, err); got != 42*time.Second {
		t.Errorf("delay = %v, want Retry-After value of 42s", got)
	}
}
