// Package scheduler drives the periodic run loop.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"internscout/internal/model"
)

// Runner is the cycle the scheduler drives; satisfied by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, now time.Time) (model.RunResult, model.RunStats, error)
}

// Scheduler owns the main loop: one immediate cycle, then a tick on the
// configured interval.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler running the given cycle at the given
// interval.
func NewScheduler(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It returns nil when ctx is cancelled (graceful
// shutdown). A failed cycle is logged and the loop keeps going; each cycle
// is idempotent, so whatever a failed run left unrecorded is retried on the
// next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, _, err := s.runner.Run(ctx, time.Now()); err != nil {
		s.logger.Error("run failed", "error", err)
	}
}
