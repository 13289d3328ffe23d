package app

import (
	"github.com/philipparndt/usdzview/internal/viewer"
	"github.com/philipparndt/usdzview/pkg/units"
)

// SetUnit changes the display unit of the table and the labels
func (a *App) SetUnit(u units.Unit) {
	a.display.SetUnit(u)
	a.redraw()
}

// Unit returns the display unit
func (a *App) Unit() units.Unit {
	return a.display.Unit()
}

// Clear removes every measurement
func (a *App) Clear() {
	a.drag.Cancel()
	a.store.ClearAll()
}

// Remove removes the measurement shown in row index
func (a *App) Remove(index int) bool {
	a.drag.Cancel()
	return a.store.RemovePair(index)
}

// ShareLink returns the link carrying the current measurements, or an
// empty string when the persistence backend has none
func (a *App) ShareLink() string {
	if s, ok := a.port.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// Labels returns one distance label per pair, anchored at its midpoint
func (a *App) Labels() []viewer.Label {
	unit := a.display.Unit()
	pairs := a.store.Pairs()
	labels := make([]viewer.Label, 0, len(pairs))
	for _, p := range pairs {
		labels = append(labels, viewer.Label{
			Position: p.Midpoint(),
			Text:     units.FormatWithLabel(p.Distance, unit),
			Color:    p.Color,
		})
	}
	return labels
}
