package vertices

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/rect"
	"github.com/kass/mercator-puzzle/pkg/spherical"
)

const tolerance = 1e-9

func squareSet() models.PolygonSet {
	return models.PolygonSet{{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 2},
		{Lat: 2, Lng: 2},
		{Lat: 2, Lng: 0},
		{Lat: 0, Lng: 0},
	}}
}

func randomSet(r *rand.Rand, center models.LatLng) models.PolygonSet {
	var set models.PolygonSet
	rings := 1 + r.Intn(3)
	for i := 0; i < rings; i++ {
		n := 4 + r.Intn(20)
		ring := make(models.Polygon, n)
		for j := 0; j < n-1; j++ {
			ring[j] = models.LatLng{
				Lat: center.Lat + r.Float64()*20 - 10,
				Lng: center.Lng + r.Float64()*20 - 10,
			}
		}
		ring[n-1] = ring[0]
		set = append(set, ring)
	}
	return set
}

func assertSetsEqual(t *testing.T, want, got models.PolygonSet) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Len(t, got[i], len(want[i]))
		for j := range want[i] {
			assert.InDelta(t, want[i][j].Lat, got[i][j].Lat, tolerance)
			assert.InDelta(t, 0, spherical.LongitudeDistance(want[i][j].Lng, got[i][j].Lng), tolerance)
		}
	}
}

func TestRoundTripIdentity(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		ref := models.LatLng{Lat: r.Float64()*140 - 70, Lng: r.Float64()*340 - 170}
		set := randomSet(r, ref)

		assertSetsEqual(t, set, Encode(ref, set).Decode(ref))
	}
}

func TestRoundTripWithReferenceOutsideShape(t *testing.T) {
	set := squareSet()
	ref := models.LatLng{Lat: -30, Lng: 100}
	assertSetsEqual(t, set, Encode(ref, set).Decode(ref))
}

func TestTranslationConsistency(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		p1 := models.LatLng{Lat: r.Float64()*120 - 60, Lng: r.Float64()*340 - 170}
		p2 := models.LatLng{Lat: r.Float64()*120 - 60, Lng: r.Float64()*340 - 170}
		set := randomSet(r, p1)

		relative := Encode(p1, set)
		reencoded := Encode(p2, relative.Decode(p2))

		require.Equal(t, relative.Len(), reencoded.Len())
		for ri := range relative {
			for vi := range relative[ri] {
				want, got := relative[ri][vi], reencoded[ri][vi]
				assert.InDelta(t, want.Distance, got.Distance, tolerance)
				if want.Distance > 1e-6 {
					assert.InDelta(t, 0, spherical.LongitudeDistance(want.Bearing, got.Bearing), 1e-6)
				}
			}
		}
	}
}

func TestEncodePreservesStructure(t *testing.T) {
	set := models.PolygonSet{
		squareSet()[0],
		{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}},
		{{Lat: 5, Lng: 5}, {Lat: 5, Lng: 6}, {Lat: 6, Lng: 6}, {Lat: 6, Lng: 5}, {Lat: 5, Lng: 5}},
	}
	relative := Encode(models.LatLng{Lat: 1, Lng: 1}, set)

	require.Equal(t, 2, relative.Len())
	assert.Len(t, relative[0], 5)
	assert.Len(t, relative[1], 5)
}

func TestEncodeReferenceVertex(t *testing.T) {
	relative := Encode(models.LatLng{Lat: 0, Lng: 0}, squareSet())
	assert.Equal(t, 0.0, relative[0][0].Distance)
	assert.InDelta(t, 90.0, relative[0][1].Bearing, tolerance)
	assert.InDelta(t, 0.0, relative[0][3].Bearing, tolerance)
}

func TestDecodeMovesSquare(t *testing.T) {
	relative := Encode(models.LatLng{Lat: 1, Lng: 1}, squareSet())
	moved := rect.Compute(relative.Decode(models.LatLng{Lat: 5, Lng: 5}))

	center := moved.Center()
	assert.InDelta(t, 5.0, center.Lat, 0.01)
	assert.InDelta(t, 5.0, center.Lng, 1e-9)
	assert.InDelta(t, 2.0, moved.Width(), 0.02)
	assert.InDelta(t, 2.0, moved.Height(), 0.01)
}

func TestDecodeIsLongitudeEquivariant(t *testing.T) {
	relative := Encode(models.LatLng{Lat: 1, Lng: 1}, squareSet())
	a := relative.Decode(models.LatLng{Lat: 40, Lng: 0})
	b := relative.Decode(models.LatLng{Lat: 40, Lng: 170})

	for i := range a[0] {
		assert.InDelta(t, a[0][i].Lat, b[0][i].Lat, tolerance)
		shifted := spherical.WrapLongitude(a[0][i].Lng + 170)
		assert.InDelta(t, 0, spherical.LongitudeDistance(shifted, b[0][i].Lng), tolerance)
	}
}

func BenchmarkDecode(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	ref := models.LatLng{Lat: 45, Lng: 10}
	relative := Encode(ref, randomSet(r, ref))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = relative.Decode(models.LatLng{Lat: float64(i % 60), Lng: float64(i % 180)})
	}
}
