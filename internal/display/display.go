// Package display turns the pair list into the measurement table.
package display

import (
	"sync"

	"github.com/philipparndt/usdzview/internal/measurement"
	"github.com/philipparndt/usdzview/pkg/units"
)

// Row is one table line
type Row struct {
	Index    int
	Swatch   measurement.Color
	Distance string
	Unit     string
}

// Text returns the distance followed by the unit label
func (r Row) Text() string {
	return r.Distance + " " + r.Unit
}

// View is the complete table description
type View struct {
	Visible bool
	Unit    units.Unit
	Rows    []Row
}

// Render builds the table for pairs. It has no side effects.
func Render(pairs []*measurement.Pair, unit units.Unit) View {
	unit = units.Parse(string(unit))
	view := View{
		Visible: len(pairs) > 0,
		Unit:    unit,
		Rows:    make([]Row, 0, len(pairs)),
	}
	for i, p := range pairs {
		view.Rows = append(view.Rows, Row{
			Index:    i,
			Swatch:   p.Color,
			Distance: units.Format(p.Distance, unit),
			Unit:     unit.Label(),
		})
	}
	return view
}

// Surface is the on-screen table
type Surface interface {
	// Show replaces the table content
	Show(view View)
	// BindRemove sets the remove handler of a row, replacing any earlier one
	BindRemove(index int, onRemove func())
}

// Source provides the pairs and removes them by index
type Source interface {
	Pairs() []*measurement.Pair
	RemovePair(index int) bool
}

// Sync keeps a Surface in step with a Source
type Sync struct {
	mu      sync.Mutex
	source  Source
	surface Surface
	unit    units.Unit
	last    View
}

// NewSync creates a sync; surface may be nil until the window exists
func NewSync(source Source, surface Surface, unit units.Unit) *Sync {
	return &Sync{
		source:  source,
		surface: surface,
		unit:    units.Parse(string(unit)),
	}
}

// SetSurface attaches the table and refreshes it
func (s *Sync) SetSurface(surface Surface) {
	s.mu.Lock()
	s.surface = surface
	s.mu.Unlock()
	s.Refresh()
}

// SetUnit changes the display unit and refreshes
func (s *Sync) SetUnit(u units.Unit) {
	s.mu.Lock()
	s.unit = units.Parse(string(u))
	s.mu.Unlock()
	s.Refresh()
}

// Unit returns the display unit
func (s *Sync) Unit() units.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unit
}

// Last returns the most recently rendered view
func (s *Sync) Last() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Refresh renders the current pairs and rebinds every row's remove handler
func (s *Sync) Refresh() {
	s.mu.Lock()
	surface, unit := s.surface, s.unit
	s.mu.Unlock()

	view := Render(s.source.Pairs(), unit)

	s.mu.Lock()
	s.last = view
	s.mu.Unlock()

	if surface == nil {
		return
	}
	surface.Show(view)
	for _, row := range view.Rows {
		index := row.Index
		surface.BindRemove(index, func() { s.source.RemovePair(index) })
	}
}
