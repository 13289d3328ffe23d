package geometry

// Ray is a half-line starting at Origin and heading along Direction.
// Direction is expected to be normalized.
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay creates a ray and normalizes its direction
func NewRay(origin, direction Vector3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ClosestPoint projects pt onto the ray's supporting line
func (r Ray) ClosestPoint(pt Vector3) Vector3 {
	return r.At(pt.Sub(r.Origin).Dot(r.Direction))
}
