package gui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/usdzview/internal/display"
	"github.com/philipparndt/usdzview/pkg/units"
)

func TestTableShowsRows(t *testing.T) {
	test.NewTempApp(t)
	table := NewTable()

	table.Show(display.View{
		Visible: true,
		Unit:    units.Centimeter,
		Rows: []display.Row{
			{Index: 0, Swatch: "#ff0000", Distance: "12.50", Unit: "cm"},
			{Index: 1, Swatch: "#00ff00", Distance: "3.00", Unit: "cm"},
		},
	})
	assert.Equal(t, 2, table.Rows())
	assert.True(t, table.box.Visible())
	assert.False(t, table.empty.Visible())

	removed := -1
	table.BindRemove(1, func() { removed = 1 })
	table.BindRemove(7, func() { removed = 7 })
	require.NotNil(t, table.buttons[1].OnTapped)
	test.Tap(table.buttons[1])
	assert.Equal(t, 1, removed)
}

func TestTableHiddenWhenEmpty(t *testing.T) {
	test.NewTempApp(t)
	table := NewTable()
	table.Show(display.View{Visible: true, Rows: []display.Row{{Swatch: "#ffffff", Distance: "1.00", Unit: "m"}}})
	table.Show(display.View{Visible: false})

	assert.Equal(t, 0, table.Rows())
	assert.False(t, table.box.Visible())
	assert.True(t, table.empty.Visible())
}
