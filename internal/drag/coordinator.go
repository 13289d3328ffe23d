// Package drag moves measurement markers along the model surface while
// keeping the camera orbit out of the way.
package drag

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/philipparndt/usdzview/internal/measurement"
	"github.com/philipparndt/usdzview/internal/picker"
	"github.com/philipparndt/usdzview/internal/pointer"
	"github.com/philipparndt/usdzview/pkg/geometry"
)

// DefaultUnlockDelay is how long rotation stays locked after a drag ends
const DefaultUnlockDelay = 500 * time.Millisecond

// Picker finds the surface under a normalized pointer position
type Picker interface {
	Pick(ndc pointer.NDC) (picker.Hit, bool)
}

// RotationLock is the camera orbit switch
type RotationLock interface {
	SetRotationEnabled(enabled bool)
}

// Feed supplies raw pointer positions
type Feed interface {
	Subscribe(fn func(pointer.Position)) *pointer.Subscription
	Last() pointer.Position
}

// Viewport reports the size used to normalize pointer positions
type Viewport interface {
	ViewportSize() (width, height float64)
}

// Store is the part of the measurement store a drag touches
type Store interface {
	PairOf(m *measurement.Marker) (*measurement.Pair, bool)
	MoveMarker(m *measurement.Marker, pos geometry.Vector3)
	Commit()
}

// Scheduler runs fn once after d
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler schedules with time.AfterFunc; fn runs on its own goroutine
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Coordinator turns grab notifications into marker moves
type Coordinator struct {
	store     Store
	picker    Picker
	lock      RotationLock
	feed      Feed
	viewport  Viewport
	scheduler Scheduler
	delay     time.Duration
	log       zerolog.Logger

	mu          sync.Mutex
	session     *Session
	nextID      uint64
	ignoreClick bool
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithScheduler replaces the timer used for the rotation unlock
func WithScheduler(s Scheduler) Option {
	return func(c *Coordinator) { c.scheduler = s }
}

// WithUnlockDelay sets the delay between drag end and rotation unlock
func WithUnlockDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// New creates a coordinator
func New(store Store, p Picker, lock RotationLock, feed Feed, viewport Viewport, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     store,
		picker:    p,
		lock:      lock,
		feed:      feed,
		viewport:  viewport,
		scheduler: TimerScheduler{},
		delay:     DefaultUnlockDelay,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DragStart opens a session for m. The pointer subscription is live
// before DragStart returns. A session still open is cancelled first.
func (c *Coordinator) DragStart(m *measurement.Marker) {
	if m == nil {
		return
	}
	if c.Active() {
		c.Cancel()
	}

	c.mu.Lock()
	c.nextID++
	s := &Session{
		ID:       c.nextID,
		Marker:   m,
		Origin:   m.Position,
		Fallback: m.Position,
		pointer:  c.feed.Last(),
	}
	if pair, ok := c.store.PairOf(m); ok {
		s.Pair = pair
	}
	c.session = s
	c.mu.Unlock()

	c.lock.SetRotationEnabled(false)
	s.sub = c.feed.Subscribe(s.track)

	c.log.Debug().Uint64("session", s.ID).Str("marker", m.ID.String()).Msg("drag started")
}

// Drag moves the marker to the surface under the pointer, or back to the
// last valid position on a miss
func (c *Coordinator) Drag(m *measurement.Marker) {
	if s := c.sessionFor(m); s != nil {
		c.step(s)
	}
}

// DragEnd places the marker a final time, persists and closes the session.
// The next click is swallowed and rotation unlocks after the delay.
func (c *Coordinator) DragEnd(m *measurement.Marker) {
	s := c.sessionFor(m)
	if s == nil {
		return
	}
	c.step(s)
	c.store.Commit()

	c.mu.Lock()
	s.close()
	c.session = nil
	c.ignoreClick = true
	c.mu.Unlock()

	c.log.Debug().Uint64("session", s.ID).Msg("drag ended")
	c.scheduler.AfterFunc(c.delay, func() { c.unlock(s.ID) })
}

// Cancel puts the dragged marker back where the drag began and unlocks
// rotation immediately. The release of the cancelled press is not a click.
func (c *Coordinator) Cancel() bool {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return false
	}
	s.close()
	c.session = nil
	c.ignoreClick = true
	c.mu.Unlock()

	c.store.MoveMarker(s.Marker, s.Origin)
	c.lock.SetRotationEnabled(true)
	c.log.Debug().Uint64("session", s.ID).Msg("drag cancelled")
	return true
}

// PointerDown marks the start of a new press; a click flag left over from
// an earlier drag no longer applies
func (c *Coordinator) PointerDown() {
	c.mu.Lock()
	c.ignoreClick = false
	c.mu.Unlock()
}

// ConsumeClick reports whether the current click is the trailing click of
// a drag release, clearing the flag
func (c *Coordinator) ConsumeClick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ignoreClick {
		c.ignoreClick = false
		return true
	}
	return false
}

// Active reports whether a drag session is open
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Session returns the open session, or nil
func (c *Coordinator) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Coordinator) sessionFor(m *measurement.Marker) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.session.Marker != m {
		return nil
	}
	return c.session
}

func (c *Coordinator) step(s *Session) {
	w, h := c.viewport.ViewportSize()
	ndc := pointer.ToNDC(s.Pointer(), w, h)

	pos := s.Fallback
	if hit, ok := c.picker.Pick(ndc); ok {
		pos = hit.Point
		s.Fallback = pos
	}
	c.store.MoveMarker(s.Marker, pos)
}

// unlock re-enables rotation unless a newer session has started since
func (c *Coordinator) unlock(id uint64) {
	c.mu.Lock()
	if c.session != nil {
		open := c.session.ID
		c.mu.Unlock()
		c.log.Debug().Uint64("session", id).Uint64("open", open).Msg("unlock skipped")
		return
	}
	c.mu.Unlock()
	c.lock.SetRotationEnabled(true)
}
