package workers

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type flakyToucher struct {
	calls atomic.Int32
}

func (f *flakyToucher) Touch(_ context.Context, name string) error {
	if f.calls.Add(1) == 1 {
		return errors.New("connection refused")
	}
	return nil
}

func TestHeartbeatWorker_KeepsTouchingAfterFailure(t *testing.T) {
	req := require.New(t)
	toucher := &flakyToucher{}
	worker := NewHeartbeatWorker(slog.Default(), toucher, "Ana", 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req.ErrorIs(worker.Run(ctx), context.DeadlineExceeded)
	req.GreaterOrEqual(toucher.calls.Load(), int32(3))
}
