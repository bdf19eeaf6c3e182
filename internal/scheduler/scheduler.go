package scheduler

import (
	"context"
	"log/slog"
	"time"

	"newsreader/internal/domain"
)

// Syncer runs one pass over all enabled sources.
type Syncer interface {
	SyncAll(ctx context.Context) (*domain.SyncStats, error)
}

// Scheduler triggers sync passes at a fixed interval.
type Scheduler struct {
	syncer      Syncer
	interval    time.Duration
	passTimeout time.Duration
	logger      *slog.Logger
}

func New(syncer Syncer, interval, passTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:      syncer,
		interval:    interval,
		passTimeout: passTimeout,
		logger:      logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, s.passTimeout)
	defer cancel()

	if _, err := s.syncer.SyncAll(syncCtx); err != nil {
		s.logger.Error("sync failed", "error", err)
	}
}
