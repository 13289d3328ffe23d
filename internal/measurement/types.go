package measurement

import (
	"image/color"
	"math"

	"github.com/google/uuid"

	"github.com/philipparndt/usdzview/internal/scene"
	"github.com/philipparndt/usdzview/pkg/geometry"
)

// Role tells the two markers of a pair apart
type Role int

const (
	First Role = iota
	Second
)

func (r Role) String() string {
	if r == Second {
		return "second"
	}
	return "first"
}

// Marker is a draggable point handle on the model surface
type Marker struct {
	ID       uuid.UUID
	Position geometry.Vector3
	Color    Color
	Role     Role
}

func (m *Marker) ObjectID() uuid.UUID        { return m.ID }
func (m *Marker) Kind() scene.Kind           { return scene.KindMarker }
func (m *Marker) Points() []geometry.Vector3 { return []geometry.Vector3{m.Position} }
func (m *Marker) Tint() color.Color          { return m.Color }

// Segment is the line connecting the two markers of a pair. It has no
// coordinates of its own, so it always matches its markers.
type Segment struct {
	ID   uuid.UUID
	pair *Pair
}

func (s *Segment) ObjectID() uuid.UUID { return s.ID }
func (s *Segment) Kind() scene.Kind    { return scene.KindSegment }
func (s *Segment) Tint() color.Color   { return s.pair.Color }

// Points returns the current positions of both markers
func (s *Segment) Points() []geometry.Vector3 {
	return []geometry.Vector3{s.pair.Markers[0].Position, s.pair.Markers[1].Position}
}

// Pair is a completed two point measurement
type Pair struct {
	ID      uuid.UUID
	Markers [2]*Marker
	Segment *Segment
	Color   Color
	// Distance in meters at full precision
	Distance float64
}

// Midpoint returns the point halfway between the markers
func (p *Pair) Midpoint() geometry.Vector3 {
	return p.Markers[0].Position.Add(p.Markers[1].Position).Mul(0.5)
}

// RoundDistance rounds a distance to two fractional digits, half away from zero
func RoundDistance(d float64) float64 {
	return math.Round(d*100) / 100
}
