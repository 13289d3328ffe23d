package measurement

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/usdzview/internal/persist"
	"github.com/philipparndt/usdzview/internal/scene"
	"github.com/philipparndt/usdzview/pkg/geometry"
)

type draggableSet map[uuid.UUID]*Marker

func (d draggableSet) Add(m *Marker)    { d[m.ID] = m }
func (d draggableSet) Remove(m *Marker) { delete(d, m.ID) }

type failingPort struct{ persist.Nop }

func (failingPort) Save(persist.Snapshot) error { return errors.New("disk full") }

type fixture struct {
	store      *Store
	scene      *scene.Scene
	draggables draggableSet
	port       *persist.Memory
	changes    int
}

func newFixture() *fixture {
	f := &fixture{
		scene:      scene.New(),
		draggables: draggableSet{},
		port:       &persist.Memory{},
	}
	colors := 0
	f.store = NewStore(f.scene,
		WithDraggables(f.draggables),
		WithPort(f.port),
		WithColorSource(func() Color {
			colors++
			return Color(fmt.Sprintf("#0000%02x", colors))
		}),
	)
	f.store.OnChange(func() { f.changes++ })
	return f
}

func v(x, y, z float64) geometry.Vector3 { return geometry.NewVector3(x, y, z) }

func (f *fixture) pair(a, b geometry.Vector3) *Pair {
	f.store.PlacePoint(a, true)
	return f.store.PlacePoint(b, true)
}

func assertPairingInvariant(t *testing.T, s *Store) {
	t.Helper()
	for _, p := range s.Pairs() {
		require.NotNil(t, p.Markers[0])
		require.NotNil(t, p.Markers[1])
		require.NotNil(t, p.Segment)
		assert.Equal(t, []geometry.Vector3{p.Markers[0].Position, p.Markers[1].Position}, p.Segment.Points())
		assert.Equal(t, p.Color, p.Markers[0].Color)
		assert.Equal(t, p.Color, p.Markers[1].Color)
		assert.Equal(t, First, p.Markers[0].Role)
		assert.Equal(t, Second, p.Markers[1].Role)
	}
}

func TestPlaceTwoPointsFormsPair(t *testing.T) {
	f := newFixture()

	assert.Nil(t, f.store.PlacePoint(v(0, 0, 0), true))
	require.NotNil(t, f.store.Pending())
	assert.Equal(t, 0, f.port.Saves)

	pair := f.store.PlacePoint(v(3, 4, 0), true)
	require.NotNil(t, pair)
	assert.Nil(t, f.store.Pending())
	assert.Equal(t, 1, f.store.Len())
	assert.InDelta(t, 5.0, pair.Distance, 1e-12)

	assert.Equal(t, 3, f.scene.Len(), "two markers and a segment")
	assert.Len(t, f.draggables, 2)

	snap, ok, err := f.port.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, snap, 1)
	assert.Equal(t, [3]float64{3, 4, 0}, snap[0].Sphere2)
	assert.Equal(t, "#000001", snap[0].Color)
	assertPairingInvariant(t, f.store)
}

func TestPlaceMissKeepsPending(t *testing.T) {
	f := newFixture()

	f.store.PlacePoint(v(1, 1, 1), true)
	pending := f.store.Pending()
	changes := f.changes

	assert.Nil(t, f.store.PlacePoint(geometry.Vector3{}, false))
	assert.Same(t, pending, f.store.Pending())
	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, changes, f.changes)
	assert.Equal(t, 1, f.scene.Len())
}

func TestColorIsGeneratedOncePerPair(t *testing.T) {
	f := newFixture()

	p1 := f.pair(v(0, 0, 0), v(1, 0, 0))
	p2 := f.pair(v(0, 1, 0), v(1, 1, 0))

	assert.Equal(t, Color("#000001"), p1.Color)
	assert.Equal(t, Color("#000002"), p2.Color)
}

func TestRemovePair(t *testing.T) {
	f := newFixture()
	f.pair(v(0, 0, 0), v(1, 0, 0))
	second := f.pair(v(0, 0, 0), v(0, 2, 0))
	saves := f.port.Saves

	assert.True(t, f.store.RemovePair(0))
	require.Equal(t, 1, f.store.Len())
	assert.Same(t, second, f.store.Pairs()[0])
	assert.Equal(t, 3, f.scene.Len())
	assert.Len(t, f.draggables, 2)
	assert.Equal(t, saves+1, f.port.Saves)

	snap, _, _ := f.port.Load()
	require.Len(t, snap, 1)
	assert.Equal(t, 2.0, snap[0].Distance)
}

func TestRemovePairOutOfRange(t *testing.T) {
	f := newFixture()
	f.pair(v(0, 0, 0), v(1, 0, 0))
	saves, changes := f.port.Saves, f.changes

	assert.False(t, f.store.RemovePair(1))
	assert.False(t, f.store.RemovePair(-1))
	assert.Equal(t, 1, f.store.Len())
	assert.Equal(t, saves, f.port.Saves)
	assert.Equal(t, changes, f.changes)
}

func TestRemovedMarkersLeaveArena(t *testing.T) {
	f := newFixture()
	pair := f.pair(v(0, 0, 0), v(1, 0, 0))

	got, ok := f.store.PairOf(pair.Markers[1])
	require.True(t, ok)
	assert.Same(t, pair, got)

	f.store.RemovePair(0)
	_, ok = f.store.PairOf(pair.Markers[1])
	assert.False(t, ok)
	_, ok = f.store.PairOf(nil)
	assert.False(t, ok)
}

func TestClearAllIsIdempotent(t *testing.T) {
	f := newFixture()
	f.pair(v(0, 0, 0), v(1, 0, 0))
	f.pair(v(0, 0, 0), v(0, 1, 0))
	f.store.PlacePoint(v(5, 5, 5), true)

	f.store.ClearAll()
	once, _, _ := f.port.Load()
	assert.Equal(t, 0, f.store.Len())
	assert.Nil(t, f.store.Pending())
	assert.Equal(t, 0, f.scene.Len())
	assert.Empty(t, f.draggables)

	f.store.ClearAll()
	twice, _, _ := f.port.Load()
	assert.Equal(t, once, twice)
	assert.Empty(t, twice)
	assert.Equal(t, 0, f.scene.Len())
	assert.Nil(t, f.store.Pending())
}

func TestClearResetsPendingColor(t *testing.T) {
	f := newFixture()
	f.store.PlacePoint(v(0, 0, 0), true)
	f.store.ClearAll()

	p := f.pair(v(0, 0, 0), v(1, 0, 0))
	assert.Equal(t, Color("#000002"), p.Color)
}

func TestCancelPending(t *testing.T) {
	f := newFixture()
	assert.False(t, f.store.CancelPending())

	f.store.PlacePoint(v(0, 0, 0), true)
	assert.True(t, f.store.CancelPending())
	assert.Nil(t, f.store.Pending())
	assert.Equal(t, 0, f.scene.Len())
	assert.Empty(t, f.draggables)
}

func TestMoveMarkerUpdatesPairWithoutSaving(t *testing.T) {
	f := newFixture()
	pair := f.pair(v(0, 0, 0), v(1, 0, 0))
	saves := f.port.Saves

	f.store.MoveMarker(pair.Markers[0], v(-2, 0, 0))
	assert.InDelta(t, 3.0, pair.Distance, 1e-12)
	assert.Equal(t, saves, f.port.Saves)
	assertPairingInvariant(t, f.store)

	f.store.Commit()
	snap, _, _ := f.port.Load()
	assert.Equal(t, [3]float64{-2, 0, 0}, snap[0].Sphere1)
	assert.Equal(t, 3.0, snap[0].Distance)
}

func TestSnapshotRoundsDistance(t *testing.T) {
	f := newFixture()
	pair := f.pair(v(0, 0, 0), v(1, 1, 1))

	assert.InDelta(t, 1.7320508, pair.Distance, 1e-6)
	assert.Equal(t, 1.73, f.store.Snapshot()[0].Distance)
}

func TestRestore(t *testing.T) {
	f := newFixture()
	f.store.PlacePoint(v(9, 9, 9), true)
	saves := f.port.Saves

	f.store.Restore(persist.Snapshot{
		{Sphere1: [3]float64{0, 0, 0}, Sphere2: [3]float64{0, 0, 2}, Color: "#123456", Distance: 2},
		{Sphere1: [3]float64{1, 0, 0}, Sphere2: [3]float64{1, 0, 1}, Color: "bogus", Distance: 1},
	})

	assert.Equal(t, saves, f.port.Saves, "restore does not write back")
	assert.Nil(t, f.store.Pending())
	require.Equal(t, 2, f.store.Len())
	assert.Equal(t, 6, f.scene.Len())
	assert.Len(t, f.draggables, 4)

	pairs := f.store.Pairs()
	assert.Equal(t, Color("#123456"), pairs[0].Color)
	assert.True(t, pairs[1].Color.Valid())
	assert.InDelta(t, 2.0, pairs[0].Distance, 1e-12)
	assertPairingInvariant(t, f.store)

	snap := f.store.Snapshot()
	assert.Equal(t, [3]float64{0, 0, 2}, snap[0].Sphere2)
	assert.Equal(t, "#123456", snap[0].Color)
}

func TestPersistFailureDoesNotInterrupt(t *testing.T) {
	s := NewStore(scene.New(), WithPort(failingPort{}))
	s.PlacePoint(v(0, 0, 0), true)
	pair := s.PlacePoint(v(1, 0, 0), true)
	require.NotNil(t, pair)
	assert.Equal(t, 1, s.Len())
}

func TestStoreWithoutCollaborators(t *testing.T) {
	s := NewStore(nil)
	s.PlacePoint(v(0, 0, 0), true)
	s.PlacePoint(v(0, 3, 0), true)
	s.MoveMarker(nil, v(1, 1, 1))
	assert.True(t, s.RemovePair(0))
	s.ClearAll()
	assert.Equal(t, 0, s.Len())
}

func TestPairingInvariantUnderRandomOperations(t *testing.T) {
	f := newFixture()
	rng := rand.New(rand.NewSource(1))
	point := func() geometry.Vector3 {
		return v(rng.Float64()*10, rng.Float64()*10, rng.Float64()*10)
	}

	for i := 0; i < 500; i++ {
		switch rng.Intn(6) {
		case 0, 1:
			f.store.PlacePoint(point(), rng.Intn(4) != 0)
		case 2:
			f.store.RemovePair(rng.Intn(f.store.Len() + 2))
		case 3:
			if pairs := f.store.Pairs(); len(pairs) > 0 {
				p := pairs[rng.Intn(len(pairs))]
				f.store.MoveMarker(p.Markers[rng.Intn(2)], point())
			}
		case 4:
			if rng.Intn(10) == 0 {
				f.store.ClearAll()
			}
		case 5:
			f.store.Restore(f.store.Snapshot())
		}

		assertPairingInvariant(t, f.store)
		expected := 3 * f.store.Len()
		if f.store.Pending() != nil {
			expected++
		}
		require.Equal(t, expected, f.scene.Len(), "step %d", i)
	}
}

func TestRoundDistance(t *testing.T) {
	assert.Equal(t, 2.46, RoundDistance(2.456))
	assert.Equal(t, 1.23, RoundDistance(1.234))
	assert.Equal(t, 0.0, RoundDistance(0.004))
	assert.Equal(t, -1.24, RoundDistance(-1.236))
}

func TestColor(t *testing.T) {
	n, ok := Color("#ff8000").NRGBA()
	require.True(t, ok)
	assert.Equal(t, uint8(0xff), n.R)
	assert.Equal(t, uint8(0x80), n.G)
	assert.Equal(t, uint8(0x00), n.B)

	assert.False(t, Color("ff8000").Valid())
	assert.False(t, Color("#ff80zz").Valid())
	assert.False(t, Color("").Valid())

	_, _, _, a := Color("#000000").RGBA()
	assert.Equal(t, uint32(0xffff), a)

	pattern := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, string(RandomColor()))
	}
}
