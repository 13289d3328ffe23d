// Package picker finds the model surface point under the pointer.
package picker

import (
	"math"

	"github.com/philipparndt/usdzview/internal/pointer"
	"github.com/philipparndt/usdzview/internal/scene"
	"github.com/philipparndt/usdzview/pkg/geometry"
)

// RayCaster builds a world space ray through a normalized device coordinate
type RayCaster interface {
	RayFromNDC(ndc pointer.NDC) geometry.Ray
}

// ModelSource returns the current pickable geometry, nil if none is loaded
type ModelSource interface {
	Model() *scene.Group
}

// Hit is a ray/surface intersection
type Hit struct {
	Point    geometry.Vector3
	Distance float64
	Mesh     *scene.Mesh
}

// Picker intersects camera rays with the model group
type Picker struct {
	camera RayCaster
	source ModelSource
}

// New creates a picker. Only geometry reachable from source is tested, so
// overlay objects can never be hit.
func New(camera RayCaster, source ModelSource) *Picker {
	return &Picker{camera: camera, source: source}
}

// Pick returns the nearest surface hit along the ray through ndc
func (p *Picker) Pick(ndc pointer.NDC) (Hit, bool) {
	if p == nil || p.camera == nil || p.source == nil {
		return Hit{}, false
	}
	return Intersect(p.camera.RayFromNDC(ndc), p.source.Model())
}

// Intersect tests ray against every mesh of group and its descendants
func Intersect(ray geometry.Ray, group *scene.Group) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	found := false

	group.Walk(func(m *scene.Mesh) {
		if !m.Bounds().IntersectsRay(ray) {
			return
		}
		for _, tri := range m.Triangles {
			t, ok := tri.IntersectRay(ray)
			if !ok || t >= best.Distance {
				continue
			}
			best = Hit{Point: ray.At(t), Distance: t, Mesh: m}
			found = true
		}
	})

	return best, found
}
