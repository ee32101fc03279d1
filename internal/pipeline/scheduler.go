package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler triggers the pipeline once at startup and then on a fixed
// interval until the context is cancelled. Run failures are logged and the
// next tick proceeds regardless; overlap between a slow run and the next
// tick is tolerated by the pipeline itself.
type Scheduler struct {
	pipeline *Pipeline
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler. The clock is injectable so tests can
// advance time deterministically.
func NewScheduler(p *Pipeline, interval time.Duration, clock clockwork.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pipeline: p,
		interval: interval,
		clock:    clock,
		logger:   logger,
	}
}

// Run blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.trigger(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			s.trigger(ctx)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.pipeline.RunOnce(ctx); err != nil {
		s.logger.Error("scheduled run failed", "error", err)
	}
}
