package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/usdzview/pkg/geometry"
)

// Result contains the measurements of a triangle soup
type Result struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// Analyze measures a set of triangles
func Analyze(triangles []geometry.Triangle) *Result {
	result := &Result{
		BoundingBox:   geometry.NewBoundingBox(),
		TriangleCount: len(triangles),
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, triangle := range triangles {
		result.BoundingBox.Extend(triangle.V1)
		result.BoundingBox.Extend(triangle.V2)
		result.BoundingBox.Extend(triangle.V3)
		result.SurfaceArea += triangle.Area()

		for _, length := range triangle.EdgeLengths() {
			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
			result.EdgeCount++
		}
	}

	if result.EdgeCount == 0 {
		return result
	}
	result.Dimensions = result.BoundingBox.Size()
	result.MinEdgeLength = minLength
	result.MaxEdgeLength = maxLength
	result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	return result
}

// NearestVertex finds the vertex nearest to point. ok is false when there
// are no triangles.
func NearestVertex(triangles []geometry.Triangle, point geometry.Vector3) (vertex geometry.Vector3, distance float64, ok bool) {
	distance = math.MaxFloat64
	for _, triangle := range triangles {
		for _, v := range [3]geometry.Vector3{triangle.V1, triangle.V2, triangle.V3} {
			if d := point.Distance(v); d < distance {
				vertex, distance, ok = v, d, true
			}
		}
	}
	return vertex, distance, ok
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
