package continents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/mercator-puzzle/pkg/country"
	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/spherical"
)

func squareAt(id string, lat, lng float64) *country.Country {
	ring := models.Polygon{
		{Lat: lat - 1, Lng: lng - 1},
		{Lat: lat - 1, Lng: lng + 1},
		{Lat: lat + 1, Lng: lng + 1},
		{Lat: lat + 1, Lng: lng - 1},
		{Lat: lat - 1, Lng: lng - 1},
	}
	return country.New(id, id, models.PolygonSet{ring})
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 6)

	total := 0
	for _, c := range all {
		assert.True(t, c.Outline.Valid(), c.Key)
		total += c.Count
	}
	assert.Equal(t, 178, total)
	assert.Equal(t, []string{"AFRICA", "ASIA", "EUROPE", "NORTH_AMERICA", "OCEANIA", "SOUTH_AMERICA"}, Names())
}

func TestCentersLieInsideOutlines(t *testing.T) {
	for _, c := range All() {
		assert.True(t, spherical.ContainsLocation(c.Center, c.Outline), c.Key)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"EUROPE", "EUROPE", true},
		{"europe", "EUROPE", true},
		{"North America", "NORTH_AMERICA", true},
		{"south-america", "SOUTH_AMERICA", true},
		{"north_america", "NORTH_AMERICA", true},
		{"Atlantis", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ByName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, c.Key)
		})
	}
}

func TestViewport(t *testing.T) {
	vp := Europe.Viewport()
	assert.InDelta(t, 71.74643171904148, vp.Northeast.Lat, 1e-12)
	assert.InDelta(t, 51.50390625, vp.Northeast.Lng, 1e-12)
	assert.InDelta(t, 33.870415550941836, vp.Southwest.Lat, 1e-12)
	assert.InDelta(t, -26.19140625, vp.Southwest.Lng, 1e-12)

	oceania := Oceania.Viewport()
	assert.InDelta(t, 106.69869258607457, oceania.Southwest.Lng, 1e-12)
	assert.InDelta(t, 178.76900508607457, oceania.Northeast.Lng, 1e-12)

	for _, c := range All() {
		vp := c.Viewport()
		assert.LessOrEqual(t, vp.Northeast.Lat, models.WorldMaxLatitude, c.Key)
		assert.True(t, vp.ContainsLatitude(c.Center.Lat), c.Key)
		assert.True(t, vp.ContainsLongitude(c.Center.Lng), c.Key)
	}
}

func TestContains(t *testing.T) {
	slovakia := squareAt("SVK", 48.7, 19.5)
	mongolia := squareAt("MNG", 46.8, 103.8)
	chad := squareAt("TCD", 15.4, 18.7)

	assert.True(t, Europe.Contains(slovakia))
	assert.False(t, Asia.Contains(slovakia))
	assert.True(t, Asia.Contains(mongolia))
	assert.True(t, Africa.Contains(chad))
	assert.False(t, Europe.Contains(chad))

	// Membership uses the loaded shape, wherever the country was dragged.
	slovakia.SetCurrentCenter(models.LatLng{Lat: -30, Lng: 140})
	assert.True(t, Europe.Contains(slovakia))

	members := Europe.Filter([]*country.Country{mongolia, slovakia, chad})
	require.Len(t, members, 1)
	assert.Equal(t, "SVK", members[0].ID)
}

func TestContainsCountryCoveringOutline(t *testing.T) {
	// A shape larger than the outline still belongs to it.
	ring := models.Polygon{
		{Lat: -60, Lng: -100},
		{Lat: -60, Lng: -20},
		{Lat: 20, Lng: -20},
		{Lat: 20, Lng: -100},
		{Lat: -60, Lng: -100},
	}
	big := country.New("BIG", "Big", models.PolygonSet{ring})
	assert.True(t, SouthAmerica.Contains(big))
}

func TestCountry(t *testing.T) {
	c := NorthAmerica.Country()
	assert.Equal(t, "NOR", c.ID)
	assert.Equal(t, "NORTH_AMERICA", c.Name)
	assert.Equal(t, NorthAmerica.Rect(), c.InitialRect())
}
