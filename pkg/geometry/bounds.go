package geometry

import "math"

// BoundingBox represents an axis-aligned bounding box
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates an empty bounding box that any point will extend
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Vector3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// Empty reports whether no point has been added yet
func (b BoundingBox) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// Union expands the bounding box to include another box
func (b *BoundingBox) Union(other BoundingBox) {
	if other.Empty() {
		return
	}
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	if b.Empty() {
		return Vector3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	if b.Empty() {
		return Vector3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}

// IntersectsRay runs a slab test against the box
func (b BoundingBox) IntersectsRay(ray Ray) bool {
	if b.Empty() {
		return false
	}

	tMin := 0.0
	tMax := math.MaxFloat64
	origin := ray.Origin.Array()
	dir := ray.Direction.Array()
	lo := b.Min.Array()
	hi := b.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < intersectEpsilon {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return false
			}
			continue
		}
		inv := 1.0 / dir[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}
