package workers

import (
	"context"
	"log/slog"
	"time"
)

// Toucher reports a participant as still connected.
type Toucher interface {
	Touch(ctx context.Context, name string) error
}

// HeartbeatWorker keeps a chat client alive by touching its participant every interval.
type HeartbeatWorker struct {
	log      *slog.Logger
	toucher  Toucher
	name     string
	interval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, toucher Toucher, name string, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, toucher: toucher, name: name, interval: interval}
}

// Run sends a heartbeat every interval. A failed heartbeat is logged and retried on the next tick;
// the server only evicts after several silent intervals.
func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "name", w.name, "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.toucher.Touch(ctx, w.name); err != nil {
				w.log.Warn("Server unreachable for heartbeat", "name", w.name, "error", err)
			}
		}
	}
}
