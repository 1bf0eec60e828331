// Package continents defines the continents a round can be played on: a rough
// outline used to pick countries and frame the map, a marker position and the
// number of countries expected in a round.
package continents

import (
	"sort"
	"strings"

	"github.com/kass/mercator-puzzle/pkg/country"
	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/rect"
	"github.com/kass/mercator-puzzle/pkg/spherical"
)

// Continent is a playable region
type Continent struct {
	Key     string
	Name    string
	Outline models.Polygon
	// Center is where the continent marker is drawn.
	Center models.LatLng
	// Count is the number of countries a complete round has.
	Count int
}

var (
	Europe = Continent{
		Key:  "EUROPE",
		Name: "Europe",
		Outline: models.Polygon{
			{Lat: 33.870415550941836, Lng: 33.92578125},
			{Lat: 38.685509760012, Lng: 6.85546875},
			{Lat: 35.88905007936091, Lng: -11.953125},
			{Lat: 66.08936427047088, Lng: -26.19140625},
			{Lat: 71.74643171904148, Lng: 26.54296875},
			{Lat: 65.07213008560696, Lng: 51.50390625},
			{Lat: 33.870415550941836, Lng: 33.92578125},
		},
		Center: models.LatLng{Lat: 48.733333, Lng: 18.916667}, // Kremnické Bane
		Count:  42,
	}

	Asia = Continent{
		Key:  "ASIA",
		Name: "Asia",
		Outline: models.Polygon{
			{Lat: 33.12828445238249, Lng: 33.45952166954635},
			{Lat: 9.524835707476441, Lng: 54.28959979454635},
			{Lat: -11.016766749358556, Lng: 113.70366229454635},
			{Lat: 25.948094628866407, Lng: 142.18022479454635},
			{Lat: 56.407779277135724, Lng: 131.63334979454635},
			{Lat: 56.212769753368086, Lng: 60.96928729454635},
			{Lat: 33.12828445238249, Lng: 33.45952166954635},
		},
		Center: models.LatLng{Lat: 43.681111, Lng: 87.331111}, // Ürümqi
		Count:  45,
	}

	Africa = Continent{
		Key:  "AFRICA",
		Name: "Africa",
		Outline: models.Polygon{
			{Lat: 32.85395382523863, Lng: 29.69244743689319},
			{Lat: 1.2437980987720791, Lng: 48.14947868689319},
			{Lat: -8.219948225686775, Lng: 42.34869743689319},
			{Lat: -12.369813322097805, Lng: 53.42291618689319},
			{Lat: -27.047167853882566, Lng: 49.55572868689319},
			{Lat: -38.400036330123356, Lng: 18.96979118689319},
			{Lat: -17.29586842365752, Lng: 7.89557243689319},
			{Lat: 0.36498708242583244, Lng: 5.96197868689319},
			{Lat: 6.153904627996047, Lng: -21.98724006310681},
			{Lat: 31.814303077302895, Lng: -17.94427131310681},
			{Lat: 37.45063424607954, Lng: 4.37994743689319},
			{Lat: 32.85395382523863, Lng: 29.69244743689319},
		},
		Center: models.LatLng{Lat: 5.65, Lng: 26.17}, // Obo
		Count:  51,
	}

	NorthAmerica = Continent{
		Key:  "NORTH_AMERICA",
		Name: "North America",
		Outline: models.Polygon{
			{Lat: 60.22138887837598, Lng: -39.04574823474576},
			{Lat: 69.88736283112377, Lng: -19.534029484745815},
			{Lat: 84.08505521238203, Lng: -4.416841984745815},
			{Lat: 84.10314220780712, Lng: -132.73715448474576},
			{Lat: 6.802328690613256, Lng: -132.91293573474576},
			{Lat: 6.453116224842353, Lng: -81.40902948474576},
			{Lat: 14.908933384133952, Lng: -73.49887323474576},
			{Lat: 9.932305217027578, Lng: -54.69027948474576},
			{Lat: 60.22138887837598, Lng: -39.04574823474576},
		},
		Center: models.LatLng{Lat: 48.367222, Lng: -99.996111}, // Rugby, North Dakota
		Count:  18,
	}

	SouthAmerica = Continent{
		Key:  "SOUTH_AMERICA",
		Name: "South America",
		Outline: models.Polygon{
			{Lat: -57.13283144829155, Lng: -74.67071849353596},
			{Lat: 1.763813688349708, Lng: -94.09454661853596},
			{Lat: 10.061586056994734, Lng: -62.98126536853596},
			{Lat: -5.959507804037502, Lng: -32.13165599353596},
			{Lat: -55.674043367038294, Lng: -34.68048411853596},
			{Lat: -57.13283144829155, Lng: -74.67071849353596},
		},
		Center: models.LatLng{Lat: -15.595833, Lng: -56.096944}, // Cuiabá
		Count:  14,
	}

	Oceania = Continent{
		Key:  "OCEANIA",
		Name: "Oceania",
		Outline: models.Polygon{
			{Lat: 6.120663375668458, Lng: 178.76900508607457},
			{Lat: -52.60185299143187, Lng: 178.76900508607457},
			{Lat: -38.426232690191014, Lng: 111.79634883607457},
			{Lat: -18.665199811521322, Lng: 106.69869258607457},
			{Lat: 6.120663375668458, Lng: 178.76900508607457},
		},
		Center: models.LatLng{Lat: -25.610111, Lng: 134.354806}, // Lambert gravitational centre
		Count:  8,
	}
)

// All returns every continent in menu order.
func All() []Continent {
	return []Continent{Europe, Asia, Africa, NorthAmerica, SouthAmerica, Oceania}
}

// ByName looks a continent up by key or display name, ignoring case, spaces,
// dashes and underscores.
func ByName(name string) (Continent, bool) {
	want := normalize(name)
	for _, c := range All() {
		if normalize(c.Key) == want || normalize(c.Name) == want {
			return c, true
		}
	}
	return Continent{}, false
}

// Names returns the keys of all continents, sorted.
func Names() []string {
	names := make([]string, 0, 6)
	for _, c := range All() {
		names = append(names, c.Key)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(name))
}

// Rect returns the bounding rectangle of the outline.
func (k Continent) Rect() rect.Rect {
	return rect.Compute(models.PolygonSet{k.Outline})
}

// Viewport returns the map area a round on this continent is played on.
func (k Continent) Viewport() models.Viewport {
	return k.Rect().Viewport()
}

// Country returns the outline as a country, for camera framing.
func (k Continent) Country(opts ...country.Option) *country.Country {
	return country.New(k.Key[:3], k.Key, models.PolygonSet{k.Outline}, opts...)
}

// Contains reports whether the loaded shape of c overlaps the outline.
func (k Continent) Contains(c *country.Country) bool {
	outline := spherical.Loops(models.PolygonSet{k.Outline})
	shape := c.InitialVertices()
	for _, ring := range shape {
		for _, p := range ring {
			if spherical.AnyContains(outline, p) {
				return true
			}
		}
	}

	loops := spherical.Loops(shape)
	for _, p := range k.Outline {
		if spherical.AnyContains(loops, p) {
			return true
		}
	}
	return false
}

// Filter returns the countries that belong to the continent, keeping order.
func (k Continent) Filter(countries []*country.Country) []*country.Country {
	var members []*country.Country
	for _, c := range countries {
		if k.Contains(c) {
			members = append(members, c)
		}
	}
	return members
}

func (k Continent) String() string {
	return k.Name
}
