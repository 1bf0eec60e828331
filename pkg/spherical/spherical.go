// Package spherical provides geodesic primitives on a unit sphere: conversions to
// Cartesian vectors, great-circle distance, initial bearing and the direct
// problem (offset by distance and bearing). Angles in models.LatLng are degrees,
// distances are radians of arc unless stated otherwise.
package spherical

import (
	"math"

	"github.com/kass/mercator-puzzle/pkg/models"
)

// EarthRadius is the mean radius of the Earth in meters.
const EarthRadius = 6371009.0

// Vector is a point or direction in the sphere's Cartesian frame
type Vector struct {
	X, Y, Z float64
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	return Vector{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// ToRadians converts degrees to radians
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// ToDegrees converts radians to degrees
func ToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// ToUnitVector converts p to a point on the unit sphere.
func ToUnitVector(p models.LatLng) Vector {
	lat := ToRadians(p.Lat)
	lng := ToRadians(p.Lng)
	return Vector{
		X: math.Cos(lat) * math.Cos(lng),
		Y: math.Cos(lat) * math.Sin(lng),
		Z: math.Sin(lat),
	}
}

// FromUnitVector converts a point of the unit sphere back to latitude/longitude.
func FromUnitVector(v Vector) models.LatLng {
	return models.LatLng{
		Lat: ToDegrees(math.Asin(clampUnit(v.Z))),
		Lng: ToDegrees(math.Atan2(v.Y, v.X)),
	}
}

// AngularDistance returns the great-circle distance between a and b in radians.
func AngularDistance(a, b models.LatLng) float64 {
	lat1 := ToRadians(a.Lat)
	lat2 := ToRadians(b.Lat)
	dLat := lat2 - lat1
	dLng := ToRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	h = math.Min(1, math.Max(0, h))

	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b models.LatLng) float64 {
	return AngularDistance(a, b) * EarthRadius
}

// Bearing returns the initial bearing from a to b in degrees, in [0, 360).
func Bearing(a, b models.LatLng) float64 {
	lat1 := ToRadians(a.Lat)
	lat2 := ToRadians(b.Lat)
	dLng := ToRadians(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	return normalizeBearing(ToDegrees(math.Atan2(y, x)))
}

// Offset returns the point reached by travelling distance radians from origin
// along the great circle that starts with the given bearing (degrees).
func Offset(origin models.LatLng, distance, bearing float64) models.LatLng {
	heading := ToRadians(bearing)
	fromLat := ToRadians(origin.Lat)
	fromLng := ToRadians(origin.Lng)

	cosDistance := math.Cos(distance)
	sinDistance := math.Sin(distance)
	sinFromLat := math.Sin(fromLat)
	cosFromLat := math.Cos(fromLat)

	sinLat := cosDistance*sinFromLat + sinDistance*cosFromLat*math.Cos(heading)
	sinLat = clampUnit(sinLat)
	dLng := math.Atan2(
		sinDistance*cosFromLat*math.Sin(heading),
		cosDistance-sinFromLat*sinLat,
	)

	return models.LatLng{
		Lat: ToDegrees(math.Asin(sinLat)),
		Lng: WrapLongitude(ToDegrees(fromLng + dLng)),
	}
}

// WrapLongitude folds lng into [-180, 180]. Values already inside the range
// are returned unchanged.
func WrapLongitude(lng float64) float64 {
	if lng >= -180 && lng <= 180 {
		return lng
	}
	wrapped := math.Mod(lng+180, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped - 180
}

// LongitudeDistance returns the shortest angular gap between two longitudes in degrees.
func LongitudeDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360.0-d)
}

func normalizeBearing(deg float64) float64 {
	b := math.Mod(deg, 360)
	if b < 0 {
		b += 360
	}
	if b >= 360 {
		b = 0
	}
	return b
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
