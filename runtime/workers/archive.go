package workers

import (
	"context"
	"log/slog"
	"time"

	"relay-lab/contract"
	"relay-lab/domain/event"
)

// ArchiveWorker drains routed domain events and fans them out to the
// registered sinks (journal, search index, projections).
//
// Best-effort only: no delivery, ordering or durability guarantees, a slow
// sink is cut off by the per-event timeout. ArchiveWorker is for audit and
// observability side effects, never for core routing.
type ArchiveWorker struct {
	log         *slog.Logger
	events      <-chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewArchiveWorker(log *slog.Logger, events <-chan event.DomainEvent,
	sinkTimeout time.Duration, sinks ...contract.EventSink) *ArchiveWorker {
	return &ArchiveWorker{log: log, events: events, sinks: sinks, sinkTimeout: sinkTimeout}
}

func (w *ArchiveWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping archive worker")
			return ctx.Err()
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout hands one event to every sink. One failing sink does not block the
// others.
func (w *ArchiveWorker) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Archive sink failed", "error", err)
		}
		cancel()
	}
}
