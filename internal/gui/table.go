package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/usdzview/internal/display"
)

const swatchSize = float32(14)

// Table is the measurement list: one row per pair with a color swatch,
// the distance and a remove button
type Table struct {
	box     *fyne.Container
	empty   *widget.Label
	buttons []*widget.Button
}

// NewTable creates an empty, hidden table
func NewTable() *Table {
	t := &Table{
		box:   container.NewVBox(),
		empty: widget.NewLabel("No measurements"),
	}
	t.box.Hide()
	return t
}

// Content returns the canvas objects to place in the window
func (t *Table) Content() fyne.CanvasObject {
	return container.NewVBox(t.empty, t.box)
}

// Show implements display.Surface
func (t *Table) Show(view display.View) {
	t.buttons = make([]*widget.Button, len(view.Rows))
	rows := make([]fyne.CanvasObject, 0, len(view.Rows))
	for i, row := range view.Rows {
		swatch := canvas.NewRectangle(row.Swatch)
		swatch.SetMinSize(fyne.NewSize(swatchSize, swatchSize))
		swatch.CornerRadius = 3

		label := widget.NewLabel(row.Text())
		label.TextStyle = fyne.TextStyle{Monospace: true}

		remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
		remove.Importance = widget.LowImportance
		t.buttons[i] = remove

		rows = append(rows, container.NewHBox(container.NewCenter(swatch), label, layout.NewSpacer(), remove))
	}
	t.box.Objects = rows

	if view.Visible {
		t.empty.Hide()
		t.box.Show()
	} else {
		t.box.Hide()
		t.empty.Show()
	}
	t.box.Refresh()
}

// BindRemove implements display.Surface
func (t *Table) BindRemove(index int, onRemove func()) {
	if index < 0 || index >= len(t.buttons) {
		return
	}
	t.buttons[index].OnTapped = onRemove
}

// Rows returns the number of rows shown
func (t *Table) Rows() int {
	return len(t.box.Objects)
}
