// README: Periodic eviction of idle sessions on a cron schedule.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultSweepSchedule = "@every 5m"

// SweepHook observes each completed sweep (metrics).
type SweepHook func(removed, remaining int)

type Sweeper struct {
	store    Store
	schedule string
	logger   *slog.Logger
	hook     SweepHook
}

func NewSweeper(store Store, schedule string, logger *slog.Logger, hook SweepHook) *Sweeper {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{store: store, schedule: schedule, logger: logger, hook: hook}
}

// RunSweeper sweeps on the configured schedule until ctx is cancelled.
func (s *Sweeper) RunSweeper(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(s.schedule, func() { s.SweepOnce(ctx) }); err != nil {
		return err
	}
	c.Start()
	s.logger.Info("session sweeper started", "schedule", s.schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("session sweeper stopped")
	return nil
}

// SweepOnce runs a single eviction pass and returns the number removed.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	removed, err := s.store.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("session sweep failed", "error", err)
		return 0
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.Error("session stats failed", "error", err)
		return removed
	}
	if removed > 0 {
		s.logger.Info("swept idle sessions", "removed", removed, "remaining", stats.ActiveSessions)
	}
	if s.hook != nil {
		s.hook(removed, stats.ActiveSessions)
	}
	return removed
}
