package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"internscout/internal/model"
)

type countingRunner struct {
	runs atomic.Int32
	err  error
}

func (r *countingRunner) Run(context.Context, time.Time) (model.RunResult, model.RunStats, error) {
	r.runs.Add(1)
	return model.RunResult{}, model.RunStats{}, r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_ImmediateFirstCycle(t *testing.T) {
	r := &countingRunner{}
	s := NewScheduler(r, time.Hour, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1 immediate cycle before the first tick", got)
	}
}

func TestRun_TicksOnInterval(t *testing.T) {
	r := &countingRunner{}
	s := NewScheduler(r, 20*time.Millisecond, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.runs.Load(); got < 3 {
		t.Errorf("runs = %d, want at least 3 over ~5 intervals", got)
	}
}

func TestRun_KeepsGoingAfterCycleError(t *testing.T) {
	r := &countingRunner{err: errors.New("store unavailable")}
	s := NewScheduler(r, 20*time.Millisecond, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("scheduler returned error: %v", err)
	}
	if got := r.runs.Load(); got < 2 {
		t.Errorf("runs = %d, want the loop to continue past a failed cycle", got)
	}
}
