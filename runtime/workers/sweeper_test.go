package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type countingExpirer struct {
	sweeps atomic.Int32
}

func (e *countingExpirer) ExpireOverdue(now time.Time) int {
	e.sweeps.Add(1)
	return 1
}

func TestSweeperWorker_SweepsOnEveryTick(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	expirer := &countingExpirer{}
	worker := NewSweeperWorker(expirer, 20*time.Millisecond, log)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := worker.Run(ctx)

	req.ErrorIs(err, context.DeadlineExceeded)
	req.GreaterOrEqual(expirer.sweeps.Load(), int32(2))
}

func TestSweeperWorker_StopsOnCancel(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	worker := NewSweeperWorker(&countingExpirer{}, time.Hour, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(500 * time.Millisecond):
		req.Fail("Sweeper should have stopped on cancellation")
	}
}
