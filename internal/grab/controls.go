// Package grab lets the pointer pick up registered markers in screen space
// and reports drag start, drag and drag end for them.
package grab

import (
	"math"

	"github.com/google/uuid"

	"github.com/philipparndt/usdzview/internal/measurement"
	"github.com/philipparndt/usdzview/internal/pointer"
	"github.com/philipparndt/usdzview/pkg/geometry"
)

// DefaultPickRadius is the screen distance in pixels within which a press
// grabs a marker
const DefaultPickRadius = 10.0

// Projector maps a world point to viewport pixels; ok is false when the
// point is behind the camera
type Projector interface {
	ProjectToScreen(p geometry.Vector3) (pos pointer.Position, ok bool)
}

// Listener receives the drag notifications
type Listener interface {
	DragStart(m *measurement.Marker)
	Drag(m *measurement.Marker)
	DragEnd(m *measurement.Marker)
}

// Controls is the set of grabbable markers, keyed by marker ID
type Controls struct {
	projector Projector
	listener  Listener
	radius    float64

	objects map[uuid.UUID]*measurement.Marker
	order   []uuid.UUID
	active  *measurement.Marker
}

// New creates an empty set; a non-positive radius selects DefaultPickRadius
func New(projector Projector, radius float64) *Controls {
	if radius <= 0 {
		radius = DefaultPickRadius
	}
	return &Controls{
		projector: projector,
		radius:    radius,
		objects:   make(map[uuid.UUID]*measurement.Marker),
	}
}

// SetListener sets who is told about drags
func (c *Controls) SetListener(l Listener) {
	c.listener = l
}

// Add registers m; adding twice is a no-op
func (c *Controls) Add(m *measurement.Marker) {
	if _, ok := c.objects[m.ID]; ok {
		return
	}
	c.objects[m.ID] = m
	c.order = append(c.order, m.ID)
}

// Remove unregisters m
func (c *Controls) Remove(m *measurement.Marker) {
	if _, ok := c.objects[m.ID]; !ok {
		return
	}
	delete(c.objects, m.ID)
	for i, id := range c.order {
		if id == m.ID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.active == m {
		c.active = nil
	}
}

// Len returns the number of registered markers
func (c *Controls) Len() int {
	return len(c.objects)
}

// Objects returns the registered markers in registration order
func (c *Controls) Objects() []*measurement.Marker {
	out := make([]*measurement.Marker, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.objects[id])
	}
	return out
}

// Active reports whether a marker is being dragged
func (c *Controls) Active() bool {
	return c.active != nil
}

// HitTest returns the registered marker closest to pos within the radius
func (c *Controls) HitTest(pos pointer.Position) *measurement.Marker {
	if c.projector == nil {
		return nil
	}
	var best *measurement.Marker
	bestDist := math.Inf(1)
	for _, id := range c.order {
		m := c.objects[id]
		screen, ok := c.projector.ProjectToScreen(m.Position)
		if !ok {
			continue
		}
		if d := screen.Distance(pos); d <= c.radius && d < bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

// Press grabs the marker under pos and reports whether one was grabbed
func (c *Controls) Press(pos pointer.Position) bool {
	m := c.HitTest(pos)
	if m == nil {
		return false
	}
	c.active = m
	if c.listener != nil {
		c.listener.DragStart(m)
	}
	return true
}

// Move drags the grabbed marker
func (c *Controls) Move(pos pointer.Position) bool {
	if c.active == nil {
		return false
	}
	if c.listener != nil {
		c.listener.Drag(c.active)
	}
	return true
}

// Cancel lets go of the grabbed marker without notifying the listener
func (c *Controls) Cancel() bool {
	if c.active == nil {
		return false
	}
	c.active = nil
	return true
}

// Release drops the grabbed marker
func (c *Controls) Release(pos pointer.Position) bool {
	m := c.active
	if m == nil {
		return false
	}
	c.active = nil
	if c.listener != nil {
		c.listener.DragEnd(m)
	}
	return true
}
