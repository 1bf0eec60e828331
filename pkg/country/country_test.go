package country

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/spherical"
)

func square(bottom, left, size float64) models.Polygon {
	return models.Polygon{
		{Lat: bottom, Lng: left},
		{Lat: bottom, Lng: left + size},
		{Lat: bottom + size, Lng: left + size},
		{Lat: bottom + size, Lng: left},
		{Lat: bottom, Lng: left},
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestNew(t *testing.T) {
	c := New("SQR", "Square", models.PolygonSet{square(0, 0, 2)})

	assert.Equal(t, models.LatLng{Lat: 1, Lng: 1}, c.TargetCenter())
	assert.Equal(t, c.TargetCenter(), c.CurrentCenter())
	assert.False(t, c.IsFixed())
	assert.Greater(t, c.Area(), 4.9e10)
	assert.Less(t, c.Area(), 5.0e10)
	assert.InDelta(t, 0, c.DistanceToTarget(), 1e-6)
	assert.Equal(t, "Square (SQR)", c.String())

	center, verts := c.Snapshot()
	assert.Equal(t, c.TargetCenter(), center)
	require.Len(t, verts, 1)
	for i, p := range verts[0] {
		assert.InDelta(t, c.InitialVertices()[0][i].Lat, p.Lat, 1e-9)
		assert.InDelta(t, c.InitialVertices()[0][i].Lng, p.Lng, 1e-9)
	}
}

func TestNewDropsMalformedRings(t *testing.T) {
	c := New("ISL", "Islands", models.PolygonSet{
		{{Lat: 5, Lng: 5}, {Lat: 6, Lng: 6}},
		square(0, 0, 2),
	})
	assert.Len(t, c.InitialVertices(), 1)
	assert.Len(t, c.Vertices(), 1)

	require.Panics(t, func() {
		New("BAD", "Bad", models.PolygonSet{{{Lat: 5, Lng: 5}}})
	})
}

func TestSetCurrentCenterMovesVertices(t *testing.T) {
	c := New("SQR", "Square", models.PolygonSet{square(0, 0, 2)})

	change := c.SetCurrentCenter(models.LatLng{Lat: 5, Lng: 5})
	assert.Equal(t, "SQR", change.ID)
	assert.Equal(t, models.LatLng{Lat: 1, Lng: 1}, change.Previous)
	assert.Equal(t, models.LatLng{Lat: 5, Lng: 5}, change.Current)

	r := c.Rect()
	assert.InDelta(t, 5.0, r.Center().Lat, 0.01)
	assert.InDelta(t, 5.0, r.Center().Lng, 1e-9)
	assert.InDelta(t, 2.0, r.Width(), 0.02)
	assert.InDelta(t, 2.0, r.Height(), 0.01)

	// The initial rectangle stays a snapshot of the loaded shape.
	assert.Equal(t, 1.0, c.InitialRect().Center().Lat)
	assert.Greater(t, c.DistanceToTarget(), 600000.0)
}

func TestSetCurrentCenterWrapsLongitude(t *testing.T) {
	c := New("SQR", "Square", models.PolygonSet{square(0, 0, 2)})
	c.SetCurrentCenter(models.LatLng{Lat: 1, Lng: 190})
	assert.InDelta(t, -170.0, c.CurrentCenter().Lng, 1e-9)
}

func TestLatitudeClampIdempotence(t *testing.T) {
	c := New("SQR", "Square", models.PolygonSet{square(0, 0, 2)})
	b := c.LatitudeBounds()

	c.SetCurrentCenter(models.LatLng{Lat: 89, Lng: 10})
	assert.Equal(t, b.Max, c.CurrentCenter().Lat)
	assert.Equal(t, 10.0, c.CurrentCenter().Lng)

	c.SetCurrentCenter(models.LatLng{Lat: -89, Lng: 10})
	assert.Equal(t, b.Min, c.CurrentCenter().Lat)

	c.SetCurrentCenter(models.LatLng{Lat: 42.5, Lng: 10})
	assert.Equal(t, 42.5, c.CurrentCenter().Lat)

	c.SetCurrentCenter(c.CurrentCenter())
	assert.Equal(t, 42.5, c.CurrentCenter().Lat)
}

func TestIsCloseToTarget(t *testing.T) {
	c := New("TEN", "Ten", models.PolygonSet{square(9, 9, 2)})
	require.Equal(t, models.LatLng{Lat: 10, Lng: 10}, c.TargetCenter())
	require.Equal(t, 2.0, c.InitialRect().Width())
	require.Equal(t, 2.0, c.InitialRect().Height())

	tests := []struct {
		center models.LatLng
		want   bool
	}{
		{models.LatLng{Lat: 10, Lng: 10}, true},
		{models.LatLng{Lat: 10.99, Lng: 10.99}, true},
		{models.LatLng{Lat: 10, Lng: 10.99}, true},
		{models.LatLng{Lat: 11.01, Lng: 10}, false},
		{models.LatLng{Lat: 11, Lng: 10}, false},
		{models.LatLng{Lat: 10, Lng: 11}, false},
		{models.LatLng{Lat: 10, Lng: -170}, false},
	}
	for _, tt := range tests {
		c.SetCurrentCenter(tt.center)
		assert.Equal(t, tt.want, c.IsCloseToTarget(), "center %v", tt.center)
	}
}

func TestIsCloseToTargetAcrossAntimeridian(t *testing.T) {
	c := New("FJI", "Fiji", models.PolygonSet{{
		{Lat: -1, Lng: 179},
		{Lat: -1, Lng: -179},
		{Lat: 1, Lng: -179},
		{Lat: 1, Lng: 179},
		{Lat: -1, Lng: 179},
	}})

	c.SetCurrentCenter(models.LatLng{Lat: 0, Lng: 179.5})
	assert.True(t, c.IsCloseToTarget())
	c.SetCurrentCenter(models.LatLng{Lat: 0, Lng: -179.5})
	assert.True(t, c.IsCloseToTarget())
	c.SetCurrentCenter(models.LatLng{Lat: 0, Lng: 178})
	assert.False(t, c.IsCloseToTarget())
}

func TestEvents(t *testing.T) {
	rec := &recorder{}
	c := New("SQR", "Square", models.PolygonSet{square(0, 0, 2)}, WithSink(rec))

	c.SetCurrentCenter(models.LatLng{Lat: 5, Lng: 5})
	c.SetCurrentCenter(models.LatLng{Lat: 6, Lng: 6})
	require.True(t, c.Fix())
	assert.False(t, c.Fix())
	assert.True(t, c.IsFixed())
	assert.Equal(t, c.TargetCenter(), c.CurrentCenter())

	require.Len(t, rec.events, 4)
	assert.Equal(t, Moved, rec.events[0].Kind)
	assert.Equal(t, models.LatLng{Lat: 5, Lng: 5}, rec.events[0].Current)
	assert.Equal(t, models.LatLng{Lat: 5, Lng: 5}, rec.events[1].Previous)
	assert.Equal(t, Moved, rec.events[2].Kind)
	assert.Equal(t, c.TargetCenter(), rec.events[2].Current)
	assert.Equal(t, Fixed, rec.events[3].Kind)
	assert.Equal(t, "fixed", rec.events[3].Kind.String())
}

func TestSetCurrentCenterAfterFix(t *testing.T) {
	rec := &recorder{}
	c := New("SQR", "Square", models.PolygonSet{square(0, 0, 2)}, WithSink(rec))

	c.SetCurrentCenter(models.LatLng{Lat: 5, Lng: 5})
	require.True(t, c.Fix())

	change := c.SetCurrentCenter(models.LatLng{Lat: 30, Lng: 30})
	assert.Equal(t, c.TargetCenter(), change.Previous)
	assert.Equal(t, c.TargetCenter(), change.Current)
	assert.Equal(t, c.TargetCenter(), c.CurrentCenter())
	assert.True(t, c.IsFixed())

	kinds := make([]EventKind, 0, len(rec.events))
	for _, e := range rec.events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []EventKind{Moved, Moved, Fixed}, kinds)
}

func TestFixPolarCountryLandsOnTarget(t *testing.T) {
	// Reaches past the map's northern edge, so its target is outside its bounds.
	c := New("POL", "Polar", models.PolygonSet{square(80, 0, 7)})
	target := c.TargetCenter()
	require.InDelta(t, 83.5, target.Lat, 1e-9)
	require.Less(t, c.LatitudeBounds().Max, target.Lat)

	c.SetCurrentCenter(target)
	assert.Less(t, c.CurrentCenter().Lat, target.Lat)

	require.True(t, c.Fix())
	assert.Equal(t, target, c.CurrentCenter())
	assert.Equal(t, c.InitialVertices(), c.Vertices())
	assert.InDelta(t, 0, c.DistanceToTarget(), 1e-6)
}

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(8)
	c := New("SQR", "Square", models.PolygonSet{square(0, 0, 2)}, WithSink(MultiSink{sink, nil}))

	c.SetCurrentCenter(models.LatLng{Lat: 3, Lng: 3})
	c.Fix()
	sink.Close()
	c.SetCurrentCenter(models.LatLng{Lat: 4, Lng: 4})

	var kinds []EventKind
	for e := range sink.Events() {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []EventKind{Moved, Moved, Fixed}, kinds)
}

func TestSinkFunc(t *testing.T) {
	var got []Change
	c := New("SQR", "Square", models.PolygonSet{square(0, 0, 2)},
		WithSink(SinkFunc(func(e Event) { got = append(got, e.Change) })))

	c.SetCurrentCenter(models.LatLng{Lat: 3, Lng: 3})
	require.Len(t, got, 1)
	assert.Equal(t, "SQR", got[0].ID)
}

func TestContainsAndIntersects(t *testing.T) {
	a := New("AAA", "A", models.PolygonSet{square(0, 0, 4)})
	b := New("BBB", "B", models.PolygonSet{square(2, 2, 4)})
	far := New("CCC", "C", models.PolygonSet{square(40, 40, 2)})

	assert.True(t, a.Contains(models.LatLng{Lat: 1, Lng: 1}))
	assert.False(t, a.Contains(models.LatLng{Lat: 10, Lng: 10}))

	assert.True(t, a.Intersects(b))
	assert.True(t, b.Intersects(a))
	assert.False(t, a.Intersects(far))

	b.SetCurrentCenter(models.LatLng{Lat: -30, Lng: 100})
	assert.False(t, a.Intersects(b))

	far.SetCurrentCenter(a.CurrentCenter())
	assert.True(t, a.Intersects(far))
}

func TestEqual(t *testing.T) {
	a := New("FRA", "France", models.PolygonSet{square(42, -4, 8)})
	b := New("FRA", "France (copy)", models.PolygonSet{square(0, 0, 1)})
	c := New("ESP", "Spain", models.PolygonSet{square(36, -9, 7)})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, a.Key(), b.Key())
}

func TestSnapshotConsistency(t *testing.T) {
	c := New("SQR", "Square", models.PolygonSet{square(0, 0, 2)})

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			c.SetCurrentCenter(models.LatLng{Lat: float64(i%60) - 30, Lng: float64(i%340) - 170})
		}
		close(done)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			center, verts := c.Snapshot()
			want := spherical.Offset(center, c.relative[0][1].Distance, c.relative[0][1].Bearing)
			if !assert.InDelta(t, want.Lat, verts[0][1].Lat, 1e-12) ||
				!assert.InDelta(t, want.Lng, verts[0][1].Lng, 1e-12) {
				return
			}
		}
	}()

	wg.Wait()
}
