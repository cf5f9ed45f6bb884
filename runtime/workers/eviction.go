package workers

import (
	"batepapo/domain"
	"context"
	"log/slog"
	"time"
)

// Sweeper runs one eviction pass.
type Sweeper interface {
	Sweep(ctx context.Context) domain.SweepReport
}

// EvictionWorker triggers a sweep every interval until the context ends.
type EvictionWorker struct {
	log      *slog.Logger
	sweeper  Sweeper
	interval time.Duration
}

func NewEvictionWorker(log *slog.Logger, sweeper Sweeper, interval time.Duration) *EvictionWorker {
	return &EvictionWorker{log: log, sweeper: sweeper, interval: interval}
}

func (w *EvictionWorker) Run(ctx context.Context) error {
	w.log.Info("Starting eviction worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			report := w.sweeper.Sweep(ctx)
			if report.Skipped {
				w.log.Debug("Previous sweep still running")
			}
		}
	}
}
