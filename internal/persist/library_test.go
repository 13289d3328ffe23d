package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary(t *testing.T) {
	db, err := OpenLibrary(filepath.Join(t.TempDir(), "nested", "measurements.db"))
	require.NoError(t, err)

	chair := NewLibrary(db, "/models/chair.usdz")
	table := NewLibrary(db, "/models/table.usdz")

	_, ok, err := chair.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	snap := Snapshot{
		{Sphere1: [3]float64{0, 0, 0}, Sphere2: [3]float64{1, 0, 0}, Color: "#ff0000", Distance: 1},
	}
	require.NoError(t, chair.Save(snap))

	got, ok, err := chair.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, got)

	// overwrite in place
	snap = append(snap, Record{Sphere1: [3]float64{0, 0, 0}, Sphere2: [3]float64{0, 2, 0}, Color: "#00ff00", Distance: 2})
	require.NoError(t, chair.Save(snap))
	require.NoError(t, table.Save(snap[:1]))

	entries, err := Entries(db)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	pairs := map[string]int{}
	for _, e := range entries {
		pairs[e.Source] = e.Pairs
	}
	assert.Equal(t, map[string]int{"/models/chair.usdz": 2, "/models/table.usdz": 1}, pairs)

	// clearing removes the row
	require.NoError(t, chair.Save(Snapshot{}))
	_, ok, err = chair.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err = table.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestLibraryCorruptRow(t *testing.T) {
	db, err := OpenLibrary(filepath.Join(t.TempDir(), "measurements.db"))
	require.NoError(t, err)
	require.NoError(t, db.Create(&measurementSet{Source: "bad.usdz", Data: "AAAA"}).Error)

	_, _, err = NewLibrary(db, "bad.usdz").Load()
	assert.ErrorIs(t, err, ErrMalformed)
}
