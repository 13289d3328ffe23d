// Package scene holds what the viewport draws: the loaded model geometry
// and the overlay objects added by the measurement tool.
package scene

import (
	"image/color"
	"sync"

	"github.com/google/uuid"

	"github.com/philipparndt/usdzview/pkg/geometry"
)

// Kind distinguishes overlay objects when drawing
type Kind int

const (
	KindMarker Kind = iota
	KindSegment
)

func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindSegment:
		return "segment"
	default:
		return "unknown"
	}
}

// Object is an overlay drawn on top of the model. Markers have one point,
// segments two.
type Object interface {
	ObjectID() uuid.UUID
	Kind() Kind
	Points() []geometry.Vector3
	Tint() color.Color
}

// Scene is the set of drawable things. Overlay objects are never part of
// the model group and so never pickable.
type Scene struct {
	mu       sync.RWMutex
	model    *Group
	objects  []Object
	index    map[uuid.UUID]int
	onChange func()
}

// New creates an empty scene
func New() *Scene {
	return &Scene{index: make(map[uuid.UUID]int)}
}

// SetOnChange registers a callback run after every mutation
func (s *Scene) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetModel replaces the model geometry group
func (s *Scene) SetModel(g *Group) {
	s.mu.Lock()
	s.model = g
	s.mu.Unlock()
	s.changed()
}

// Model returns the model geometry group, nil before a model is loaded
func (s *Scene) Model() *Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Add adds an overlay object; adding the same object twice is a no-op
func (s *Scene) Add(obj Object) {
	s.mu.Lock()
	if _, ok := s.index[obj.ObjectID()]; ok {
		s.mu.Unlock()
		return
	}
	s.index[obj.ObjectID()] = len(s.objects)
	s.objects = append(s.objects, obj)
	s.mu.Unlock()
	s.changed()
}

// Remove removes an overlay object and reports whether it was present
func (s *Scene) Remove(obj Object) bool {
	s.mu.Lock()
	i, ok := s.index[obj.ObjectID()]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	delete(s.index, obj.ObjectID())
	for j := i; j < len(s.objects); j++ {
		s.index[s.objects[j].ObjectID()] = j
	}
	s.mu.Unlock()
	s.changed()
	return true
}

// Contains reports whether obj is in the scene
func (s *Scene) Contains(obj Object) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[obj.ObjectID()]
	return ok
}

// Objects returns the overlay objects in insertion order
func (s *Scene) Objects() []Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Len returns the number of overlay objects
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Touch notifies the change callback without mutating, used when an
// object moved in place
func (s *Scene) Touch() {
	s.changed()
}

func (s *Scene) changed() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
