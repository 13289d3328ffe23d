package viewer

import (
	"math"

	"github.com/philipparndt/usdzview/internal/pointer"
	"github.com/philipparndt/usdzview/pkg/geometry"
)

const (
	// DefaultFOV is the vertical field of view in radians (27 degrees)
	DefaultFOV = 27 * math.Pi / 180
	// FitOffset leaves a margin around the model when fitting
	FitOffset = 1.5

	maxPitch    = math.Pi/2 - 0.1
	minDistance = 1e-4
)

// Camera is an orbit camera looking at Target
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // vertical field of view in radians
	Aspect    float64 // viewport width / height
	Near      float64
	Far       float64
	Distance  float64
	RotationX float64 // pitch
	RotationY float64 // yaw
}

// NewCamera creates a camera framing bbox
func NewCamera(bbox geometry.BoundingBox) *Camera {
	c := &Camera{
		Up:        geometry.NewVector3(0, 1, 0),
		FOV:       DefaultFOV,
		Aspect:    1,
		RotationX: math.Pi / 4,
	}
	c.Fit(bbox)
	return c
}

// Fit moves the camera so the whole box is visible, keeping the view direction
func (c *Camera) Fit(bbox geometry.BoundingBox) {
	if bbox.Empty() {
		bbox = geometry.BoundingBox{Min: geometry.NewVector3(-1, -1, -1), Max: geometry.NewVector3(1, 1, 1)}
	}
	size := bbox.Size()
	maxSize := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxSize <= 0 {
		maxSize = 1
	}

	fitHeight := maxSize / (2 * math.Tan(c.FOV/2))
	fitWidth := fitHeight
	if c.Aspect > 0 {
		fitWidth = fitHeight / c.Aspect
	}

	c.Target = bbox.Center()
	c.Distance = FitOffset * math.Max(fitHeight, fitWidth)
	c.Near = c.Distance / 100
	c.Far = c.Distance * 100
	c.UpdatePosition()
}

// UpdatePosition updates camera position based on rotation angles
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate rotates the camera by the given angles
func (c *Camera) Rotate(deltaX, deltaY float64) {
	c.RotationX = math.Max(-maxPitch, math.Min(maxPitch, c.RotationX+deltaX))
	c.RotationY += deltaY
	c.UpdatePosition()
}

// Zoom changes the camera distance by a relative amount
func (c *Camera) Zoom(delta float64) {
	c.Distance = math.Max(minDistance, c.Distance*(1.0+delta))
	c.UpdatePosition()
}

func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

func (c *Camera) aspect() float64 {
	if c.Aspect <= 0 {
		return 1
	}
	return c.Aspect
}

// ProjectNDC projects a world point into normalized device coordinates.
// depth is the distance along the view direction; ok is false for points
// in front of the near plane.
func (c *Camera) ProjectNDC(point geometry.Vector3) (ndc pointer.NDC, depth float64, ok bool) {
	forward, right, up := c.basis()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)
	if z <= c.Near {
		return pointer.NDC{}, z, false
	}

	fovScale := math.Tan(c.FOV / 2)
	return pointer.NDC{
		X: x / (z * fovScale * c.aspect()),
		Y: y / (z * fovScale),
	}, z, true
}

// Project projects a 3D point to screen coordinates and depth
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	ndc, z, _ := c.ProjectNDC(point)
	pos := pointer.ToScreen(ndc, width, height)
	return pos.X, pos.Y, z
}

// RayFromNDC returns the world ray through a normalized device coordinate
func (c *Camera) RayFromNDC(ndc pointer.NDC) geometry.Ray {
	forward, right, up := c.basis()
	fovScale := math.Tan(c.FOV / 2)

	dir := forward.
		Add(right.Mul(ndc.X * fovScale * c.aspect())).
		Add(up.Mul(ndc.Y * fovScale))
	return geometry.NewRay(c.Position, dir)
}
