package ws

import (
	"sync"

	"relay-lab/protocol"
)

// Sink is the outbound half of one WebSocket connection: a buffered frame
// channel drained by the connection's write pump.
//
// Deliver never blocks. A full buffer or a closed connection drops the
// frame, matching the fire-and-forget delivery contract.
type Sink struct {
	frames    chan protocol.Frame
	done      chan struct{}
	closeOnce sync.Once
}

func NewSink(bufferSize int) *Sink {
	return &Sink{
		frames: make(chan protocol.Frame, bufferSize),
		done:   make(chan struct{}),
	}
}

func (s *Sink) Deliver(frame protocol.Frame) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.frames <- frame:
		return true
	default:
		return false
	}
}

// Close marks the sink dead. Frames already buffered are discarded by the
// write pump's exit, further Deliver calls report false.
func (s *Sink) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Sink) Frames() <-chan protocol.Frame {
	return s.frames
}

func (s *Sink) Done() <-chan struct{} {
	return s.done
}
