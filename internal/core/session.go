package core

import (
	"sync"
)

// Session is one live websocket connection bound to one room. The
// transport goroutines own the connection itself; the core only sees
// the outbound byte channel.
type Session struct {
	ID     string
	RoomID string

	// Outbound carries pre-serialized frames to the connection's write
	// loop. The buffer absorbs short bursts; a full buffer means the
	// peer is stalled and the session gets disconnected.
	outbound chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

// NewSession constructs a session bound to roomID. The buffer size
// bounds how far a slow reader may fall behind before it is dropped.
func NewSession(id, roomID string, buffer int) *Session {
	if buffer <= 0 {
		buffer = 32
	}
	return &Session{
		ID:       id,
		RoomID:   roomID,
		outbound: make(chan []byte, buffer),
		done:     make(chan struct{}),
	}
}

// Outbound returns the channel the write loop drains.
func (s *Session) Outbound() <-chan []byte {
	return s.outbound
}

// Done is closed when the session is shut down, unblocking the write loop.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// TrySend queues a frame without blocking. It reports false when the
// session is closed or its buffer is full; callers treat false as a
// transport failure for this peer.
func (s *Session) TrySend(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outbound <- frame:
		return true
	default:
		return false
	}
}

// Close marks the session dead. Safe to call more than once; the first
// call wins and later calls are no-ops.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
