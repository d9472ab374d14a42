package runtime

import (
	"sync"

	"relay-lab/contract"
	"relay-lab/protocol"
)

// Registry maps a session identifier to its single live connection sink.
// At most one entry exists per identifier, a new registration for the same
// identifier replaces the prior sink without closing it (last-write-wins).
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.FrameSink
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]contract.FrameSink)}
}

// Register unconditionally associates the identifier with the sink.
// Callers are responsible for never passing an empty identifier.
func (r *Registry) Register(sessionID string, sink contract.FrameSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = sink
}

// Lookup returns the current sink for the session. Never blocks.
func (r *Registry) Lookup(sessionID string) (contract.FrameSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sessions[sessionID]
	return sink, ok
}

// Unregister removes the association only if the caller's sink still matches
// the registered one. A close event from a stale connection therefore cannot
// evict a session that has since reconnected on a new connection.
// It reports whether an entry was removed.
func (r *Registry) Unregister(sessionID string, sink contract.FrameSink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sessions[sessionID]
	if !ok || current != sink {
		return false
	}
	delete(r.sessions, sessionID)
	return true
}

// Send is the single delivery primitive of the system. It looks up the
// session and hands the frame to its sink. Fire-and-forget: no queueing, no
// retry, the boolean only reports whether the frame reached a live sink.
func (r *Registry) Send(sessionID string, frame protocol.Frame) bool {
	sink, ok := r.Lookup(sessionID)
	if !ok {
		return false
	}
	return sink.Deliver(frame)
}

// FanOut sends the frame to each identifier. Order is unspecified and
// failures are independent, a dead connection never blocks the others.
func (r *Registry) FanOut(sessionIDs []string, frame protocol.Frame) {
	for _, id := range sessionIDs {
		r.Send(id, frame)
	}
}

// ActiveSessions returns the identifiers currently registered.
func (r *Registry) ActiveSessions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
