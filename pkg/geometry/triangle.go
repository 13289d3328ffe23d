package geometry

import "math"

// intersectEpsilon rejects rays that are parallel to a triangle's plane
const intersectEpsilon = 1e-12

// Triangle represents a triangular facet in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{Normal: normal, V1: v1, V2: v2, V3: v3}
}

// CalculateNormal computes the face normal from the winding order
func (t Triangle) CalculateNormal() Vector3 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return t.V1.Add(t.V2).Add(t.V3).Mul(1.0 / 3.0)
}

// IntersectRay returns the ray parameter of the hit point, using the
// Möller–Trumbore test. Both faces are hit; hits behind the origin are not.
func (t Triangle) IntersectRay(ray Ray) (float64, bool) {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)

	p := ray.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if math.Abs(det) < intersectEpsilon {
		return 0, false
	}
	inv := 1.0 / det

	s := ray.Origin.Sub(t.V1)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := ray.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := edge2.Dot(q) * inv
	if dist <= intersectEpsilon {
		return 0, false
	}
	return dist, true
}
