//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"relay-lab/domain/event"
	"relay-lab/protocol"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// FrameSink is the outbound half of one live connection. Deliver never
// blocks and reports whether the frame was handed to the connection,
// callers decide whether they care about a drop.
type FrameSink interface {
	Deliver(frame protocol.Frame) bool
}

// EventSink consumes routed domain events for side effects
// (journal, search index, projections). Best effort only.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry is the single source of truth for which session is online.
type IRegistry interface {
	Register(sessionID string, sink FrameSink)
	Lookup(sessionID string) (FrameSink, bool)
	Unregister(sessionID string, sink FrameSink) bool
	Send(sessionID string, frame protocol.Frame) bool
	FanOut(sessionIDs []string, frame protocol.Frame)
	ActiveSessions() []string
	Count() int
}
