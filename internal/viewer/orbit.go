package viewer

import (
	"sync"

	"github.com/philipparndt/usdzview/pkg/geometry"
)

const (
	rotateSpeed = 0.01
	zoomSpeed   = 0.001
)

// Orbit turns pointer drags and scrolling into camera motion. Rotation
// can be switched off while a marker is dragged.
type Orbit struct {
	mu       sync.Mutex
	camera   *Camera
	rotation bool
	onChange func()
}

// NewOrbit creates an orbit controller with rotation enabled
func NewOrbit(camera *Camera) *Orbit {
	return &Orbit{camera: camera, rotation: true}
}

// Camera returns the controlled camera
func (o *Orbit) Camera() *Camera {
	return o.camera
}

// SetOnChange registers a callback for camera moves
func (o *Orbit) SetOnChange(fn func()) {
	o.mu.Lock()
	o.onChange = fn
	o.mu.Unlock()
}

// SetRotationEnabled switches drag rotation on or off. Repeated calls
// with the same value are harmless.
func (o *Orbit) SetRotationEnabled(enabled bool) {
	o.mu.Lock()
	o.rotation = enabled
	o.mu.Unlock()
}

// RotationEnabled reports whether drags rotate the camera
func (o *Orbit) RotationEnabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rotation
}

// Drag rotates by a pointer delta in pixels and reports whether it did
func (o *Orbit) Drag(dx, dy float64) bool {
	o.mu.Lock()
	if !o.rotation {
		o.mu.Unlock()
		return false
	}
	o.camera.Rotate(-dy*rotateSpeed, -dx*rotateSpeed)
	fn := o.onChange
	o.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// Scroll zooms by a scroll delta
func (o *Orbit) Scroll(dy float64) {
	o.mu.Lock()
	o.camera.Zoom(-dy * zoomSpeed)
	fn := o.onChange
	o.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Fit frames bbox
func (o *Orbit) Fit(bbox geometry.BoundingBox) {
	o.mu.Lock()
	o.camera.Fit(bbox)
	fn := o.onChange
	o.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// SetAspect updates the viewport aspect ratio
func (o *Orbit) SetAspect(aspect float64) {
	o.mu.Lock()
	o.camera.Aspect = aspect
	o.mu.Unlock()
}
