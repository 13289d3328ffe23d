// Package measurement owns the point markers, the pairs they form and the
// segments connecting them.
package measurement

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/philipparndt/usdzview/internal/persist"
	"github.com/philipparndt/usdzview/internal/scene"
	"github.com/philipparndt/usdzview/pkg/geometry"
)

// Renderer displays the objects the store adds to it
type Renderer interface {
	Add(obj scene.Object)
	Remove(obj scene.Object) bool
}

// Draggables is the set of markers the grab controls may pick up
type Draggables interface {
	Add(m *Marker)
	Remove(m *Marker)
}

// Store is the marker/pair state machine. Each placement slot goes
// Idle -> Pending(one marker) -> Pair.
type Store struct {
	renderer   Renderer
	draggables Draggables
	port       persist.Port
	log        zerolog.Logger
	newColor   func() Color

	pairs    []*Pair
	byMarker map[uuid.UUID]*Pair

	pending      *Marker
	pendingColor Color

	listeners []func()
}

// Option configures a Store
type Option func(*Store)

// WithDraggables registers markers with the grab controls
func WithDraggables(d Draggables) Option {
	return func(s *Store) { s.draggables = d }
}

// WithPort writes every committed change through port
func WithPort(port persist.Port) Option {
	return func(s *Store) { s.port = port }
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithColorSource replaces RandomColor, mainly for tests
func WithColorSource(fn func() Color) Option {
	return func(s *Store) { s.newColor = fn }
}

// NewStore creates an empty store drawing into renderer
func NewStore(renderer Renderer, opts ...Option) *Store {
	s := &Store{
		renderer: renderer,
		log:      zerolog.Nop(),
		newColor: RandomColor,
		byMarker: make(map[uuid.UUID]*Pair),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to run after every change of the pair list or a
// marker position
func (s *Store) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

// Pairs returns the pairs in creation order
func (s *Store) Pairs() []*Pair {
	out := make([]*Pair, len(s.pairs))
	copy(out, s.pairs)
	return out
}

// Len returns the number of completed pairs
func (s *Store) Len() int {
	return len(s.pairs)
}

// Pending returns the marker waiting for its partner, or nil
func (s *Store) Pending() *Marker {
	return s.pending
}

// PairOf returns the pair owning m
func (s *Store) PairOf(m *Marker) (*Pair, bool) {
	if m == nil {
		return nil, false
	}
	p, ok := s.byMarker[m.ID]
	return p, ok
}

// PlacePoint advances the placement state machine with a pick result.
// A miss (ok false) changes nothing. The second point returns the new pair.
func (s *Store) PlacePoint(point geometry.Vector3, ok bool) *Pair {
	if !ok {
		return nil
	}

	if s.pending == nil {
		if s.pendingColor == "" {
			s.pendingColor = s.newColor()
		}
		s.pending = s.newMarker(point, s.pendingColor, First)
		s.attach(s.pending)
		s.log.Debug().Str("marker", s.pending.ID.String()).Msg("first point placed")
		s.notify()
		return nil
	}

	first := s.pending
	second := s.newMarker(point, s.pendingColor, Second)
	s.attach(second)

	pair := s.newPair(first, second, s.pendingColor)
	s.pending = nil
	s.pendingColor = ""

	s.log.Debug().
		Str("pair", pair.ID.String()).
		Float64("distance", pair.Distance).
		Msg("pair created")

	s.notify()
	s.Commit()
	return pair
}

// RemovePair removes the pair at index. Stale indexes are ignored.
func (s *Store) RemovePair(index int) bool {
	if index < 0 || index >= len(s.pairs) {
		return false
	}
	pair := s.pairs[index]
	s.detachPair(pair)
	s.pairs = append(s.pairs[:index], s.pairs[index+1:]...)

	s.log.Debug().Str("pair", pair.ID.String()).Int("index", index).Msg("pair removed")
	s.notify()
	s.Commit()
	return true
}

// ClearAll removes every pair and the pending marker
func (s *Store) ClearAll() {
	s.reset()
	s.log.Debug().Msg("measurements cleared")
	s.notify()
	s.Commit()
}

// CancelPending drops a first point that has no partner yet
func (s *Store) CancelPending() bool {
	if s.pending == nil {
		return false
	}
	s.detach(s.pending)
	s.pending = nil
	s.pendingColor = ""
	s.notify()
	return true
}

// RecomputeDistance updates the pair's distance from its live marker positions
func (s *Store) RecomputeDistance(p *Pair) float64 {
	p.Distance = p.Markers[0].Position.Distance(p.Markers[1].Position)
	return p.Distance
}

// MoveMarker moves m and refreshes the owning pair. It does not persist;
// call Commit when the interaction is over.
func (s *Store) MoveMarker(m *Marker, pos geometry.Vector3) {
	if m == nil {
		return
	}
	m.Position = pos
	if p, ok := s.byMarker[m.ID]; ok {
		s.RecomputeDistance(p)
	}
	s.notify()
}

// Commit writes the current snapshot through the persistence port.
// Failures are logged; interaction carries on.
func (s *Store) Commit() {
	if s.port == nil {
		return
	}
	if err := s.port.Save(s.Snapshot()); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist measurements")
	}
}

// Snapshot returns the persisted form of all completed pairs
func (s *Store) Snapshot() persist.Snapshot {
	snap := make(persist.Snapshot, 0, len(s.pairs))
	for _, p := range s.pairs {
		snap = append(snap, persist.Record{
			Sphere1:  p.Markers[0].Position.Array(),
			Sphere2:  p.Markers[1].Position.Array(),
			Color:    string(p.Color),
			Distance: RoundDistance(p.Distance),
		})
	}
	return snap
}

// Restore replaces all state with snap without writing it back.
// Records with an unusable color get a fresh one.
func (s *Store) Restore(snap persist.Snapshot) {
	s.reset()
	for _, rec := range snap {
		c := Color(rec.Color)
		if !c.Valid() {
			c = s.newColor()
		}
		first := s.newMarker(geometry.FromArray(rec.Sphere1), c, First)
		second := s.newMarker(geometry.FromArray(rec.Sphere2), c, Second)
		s.attach(first)
		s.attach(second)
		s.newPair(first, second, c)
	}
	s.log.Debug().Int("pairs", len(s.pairs)).Msg("measurements restored")
	s.notify()
}

func (s *Store) newMarker(pos geometry.Vector3, c Color, role Role) *Marker {
	return &Marker{ID: uuid.New(), Position: pos, Color: c, Role: role}
}

func (s *Store) newPair(first, second *Marker, c Color) *Pair {
	pair := &Pair{
		ID:      uuid.New(),
		Markers: [2]*Marker{first, second},
		Color:   c,
	}
	pair.Segment = &Segment{ID: uuid.New(), pair: pair}
	s.RecomputeDistance(pair)

	s.pairs = append(s.pairs, pair)
	s.byMarker[first.ID] = pair
	s.byMarker[second.ID] = pair
	if s.renderer != nil {
		s.renderer.Add(pair.Segment)
	}
	return pair
}

func (s *Store) attach(m *Marker) {
	if s.renderer != nil {
		s.renderer.Add(m)
	}
	if s.draggables != nil {
		s.draggables.Add(m)
	}
}

func (s *Store) detach(m *Marker) {
	if s.renderer != nil {
		s.renderer.Remove(m)
	}
	if s.draggables != nil {
		s.draggables.Remove(m)
	}
}

func (s *Store) detachPair(p *Pair) {
	for _, m := range p.Markers {
		s.detach(m)
		delete(s.byMarker, m.ID)
	}
	if s.renderer != nil {
		s.renderer.Remove(p.Segment)
	}
}

func (s *Store) reset() {
	for _, p := range s.pairs {
		s.detachPair(p)
	}
	s.pairs = nil
	if s.pending != nil {
		s.detach(s.pending)
	}
	s.pending = nil
	s.pendingColor = ""
}

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}
