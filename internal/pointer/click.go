package pointer

// DefaultClickTolerance is the movement in pixels below which a press and
// release still count as a click
const DefaultClickTolerance = 5.0

// ClickClassifier tells clicks apart from camera drags
type ClickClassifier struct {
	Tolerance float64

	down    Position
	pressed bool
	moved   bool
}

// NewClickClassifier creates a classifier; non-positive tolerance selects the default
func NewClickClassifier(tolerance float64) *ClickClassifier {
	if tolerance <= 0 {
		tolerance = DefaultClickTolerance
	}
	return &ClickClassifier{Tolerance: tolerance}
}

// Down starts a press at pos
func (c *ClickClassifier) Down(pos Position) {
	c.down = pos
	c.pressed = true
	c.moved = false
}

// Move notes pointer movement while pressed
func (c *ClickClassifier) Move(pos Position) {
	if c.pressed && c.down.Distance(pos) >= c.Tolerance {
		c.moved = true
	}
}

// Up ends the press and reports whether it was a click
func (c *ClickClassifier) Up(pos Position) bool {
	if !c.pressed {
		return false
	}
	c.pressed = false
	return !c.moved && c.down.Distance(pos) < c.Tolerance
}

// Pressed reports whether a press is in progress
func (c *ClickClassifier) Pressed() bool {
	return c.pressed
}
