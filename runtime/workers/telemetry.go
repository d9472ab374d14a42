package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"relay-lab/observability"
	"relay-lab/runtime"
)

// SnapshotProvider is the slice of the router the telemetry worker reads.
type SnapshotProvider interface {
	Snapshot() runtime.Snapshot
}

// TelemetryWorker logs process health (RSS, CPU, status) together with the
// live store counts on a fixed interval.
type TelemetryWorker struct {
	log      *slog.Logger
	provider SnapshotProvider
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, provider SnapshotProvider, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, provider: provider, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	w.log.Info("Starting telemetry worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats, err := observability.Collect(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			snapshot := w.provider.Snapshot()
			w.log.Info("Relay telemetry",
				"pid_status", stats.Status,
				"cpu_percent", stats.CPUPercent,
				"ram_bytes", stats.RAMBytes,
				"open_connections", snapshot.OpenConnections,
				"conversations", snapshot.Conversations,
				"invitations", snapshot.Invitations,
				"pending_invitations", snapshot.PendingInvitations)
		}
	}
}
