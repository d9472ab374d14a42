package workers

import (
	"context"
	"log/slog"
	"time"
)

// Expirer is the slice of the router the sweeper needs.
type Expirer interface {
	ExpireOverdue(now time.Time) int
}

// SweeperWorker periodically scans the invitation store and transitions
// overdue pending invitations to expired, notifying both parties. The scan
// is a full in-memory pass with no batch limit. The worker is process-wide,
// independent of any connection, and stops only on shutdown.
type SweeperWorker struct {
	expirer  Expirer
	interval time.Duration
	log      *slog.Logger
}

func NewSweeperWorker(expirer Expirer, interval time.Duration, log *slog.Logger) *SweeperWorker {
	return &SweeperWorker{expirer: expirer, interval: interval, log: log}
}

func (w *SweeperWorker) Run(ctx context.Context) error {
	w.log.Info("Starting invitation expiry sweeper", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping sweeper")
			return ctx.Err()
		case <-ticker.C:
			if expired := w.expirer.ExpireOverdue(time.Now().UTC()); expired > 0 {
				w.log.Info("Sweep completed", "expired", expired)
			}
		}
	}
}
