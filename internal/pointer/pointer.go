// Package pointer maps screen positions into normalized device coordinates
// and distributes pointer movement to paired subscriptions.
package pointer

import "math"

// Position is a pointer location in viewport pixels, origin top left
type Position struct {
	X, Y float64
}

// Distance returns the pixel distance to other
func (p Position) Distance(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// NDC is a normalized device coordinate in [-1, 1] on both axes, y up
type NDC struct {
	X, Y float64
}

// ToNDC converts a viewport position into normalized device coordinates.
// A degenerate viewport maps everything to the center.
func ToNDC(pos Position, width, height float64) NDC {
	if width <= 0 || height <= 0 {
		return NDC{}
	}
	return NDC{
		X: pos.X/width*2 - 1,
		Y: -(pos.Y/height)*2 + 1,
	}
}

// ToScreen is the inverse of ToNDC
func ToScreen(ndc NDC, width, height float64) Position {
	return Position{
		X: (ndc.X + 1) / 2 * width,
		Y: (1 - ndc.Y) / 2 * height,
	}
}
