package drag

import (
	"sync"

	"github.com/philipparndt/usdzview/internal/measurement"
	"github.com/philipparndt/usdzview/internal/pointer"
	"github.com/philipparndt/usdzview/pkg/geometry"
)

// Session is one drag, open from drag start to drag end or cancel
type Session struct {
	ID     uint64
	Marker *measurement.Marker
	// Pair is nil while dragging a marker that has no partner yet
	Pair *measurement.Pair
	// Origin is where the marker was when the drag began
	Origin geometry.Vector3
	// Fallback is the last position known to be on the surface
	Fallback geometry.Vector3

	mu      sync.Mutex
	pointer pointer.Position
	sub     *pointer.Subscription
	closed  bool
}

func (s *Session) track(p pointer.Position) {
	s.mu.Lock()
	s.pointer = p
	s.mu.Unlock()
}

// Pointer returns the latest tracked pointer position
func (s *Session) Pointer() pointer.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// Closed reports whether the session has ended
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) close() {
	s.sub.Close()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
