package models

// MinRingSize is the smallest number of points a closed GeoJSON ring can have.
const MinRingSize = 4

// LatLng represents a geographic location with latitude and longitude in degrees
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Polygon is a closed ring of vertices, first point repeated at the end
type Polygon []LatLng

// Valid reports whether the ring has enough points to be used by the geometry code.
func (p Polygon) Valid() bool {
	return len(p) >= MinRingSize
}

// PolygonSet holds every landmass of one country
type PolygonSet []Polygon

// ValidRings returns the rings of s that are not malformed, in order.
func (s PolygonSet) ValidRings() PolygonSet {
	valid := make(PolygonSet, 0, len(s))
	for _, ring := range s {
		if ring.Valid() {
			valid = append(valid, ring)
		}
	}
	return valid
}

// VertexCount returns the number of vertices in valid rings.
func (s PolygonSet) VertexCount() int {
	n := 0
	for _, ring := range s {
		if ring.Valid() {
			n += len(ring)
		}
	}
	return n
}

// Viewport represents a rectangular area of the map defined by two corners.
// Southwest.Lng may be greater than Northeast.Lng when the area crosses the antimeridian.
type Viewport struct {
	Northeast LatLng `json:"northeast" yaml:"northeast"`
	Southwest LatLng `json:"southwest" yaml:"southwest"`
}

// WorldMaxLatitude is the highest latitude the Web Mercator map can show.
const WorldMaxLatitude = 85.06

// WorldViewport covers the whole usable map.
func WorldViewport() Viewport {
	return Viewport{
		Northeast: LatLng{Lat: WorldMaxLatitude, Lng: 180},
		Southwest: LatLng{Lat: -WorldMaxLatitude, Lng: -180},
	}
}

// LongitudeSpan returns the width of the viewport in degrees, wrap-aware.
func (v Viewport) LongitudeSpan() float64 {
	west, east := v.Southwest.Lng, v.Northeast.Lng
	if west < east {
		return east - west
	}
	return 360.0 - west + east
}

// ContainsLongitude reports whether lng lies between the western and eastern edges,
// taking the antimeridian into account.
func (v Viewport) ContainsLongitude(lng float64) bool {
	west, east := v.Southwest.Lng, v.Northeast.Lng
	if west < east {
		return lng >= west && lng <= east
	}
	return lng >= west || lng <= east
}

// ContainsLatitude reports whether lat lies between the southern and northern edges.
func (v Viewport) ContainsLatitude(lat float64) bool {
	return lat >= v.Southwest.Lat && lat <= v.Northeast.Lat
}
