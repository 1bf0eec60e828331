// Package bounds computes the range of latitudes a country's reference point
// may take so that none of its vertices, replayed around that point, crosses a
// latitude limit. The computation works in the sphere's Cartesian frame:
// limits are planes z = z0 and each vertex travels along the circle cut by a
// plane parallel to the reference point's meridian plane.
package bounds

import (
	"math"

	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/spherical"
)

// DefaultMaxMapLatitude is the highest latitude the Web Mercator map shows
// without diverging.
const DefaultMaxMapLatitude = models.WorldMaxLatitude

// Bounds is the allowable latitude range for a reference point. Min may be
// greater than Max when the available room is smaller than the shape.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Empty reports whether there is no room between Min and Max.
func (b Bounds) Empty() bool {
	return b.Min >= b.Max
}

// Contains reports whether lat lies within the bounds.
func (b Bounds) Contains(lat float64) bool {
	return lat >= b.Min && lat <= b.Max
}

// Clamp snaps lat to the nearer bound when it lies outside.
func (b Bounds) Clamp(lat float64) float64 {
	if lat > b.Max {
		return b.Max
	}
	if lat < b.Min {
		return b.Min
	}
	return lat
}

// Midpoint returns the middle of the range.
func (b Bounds) Midpoint() float64 {
	return (b.Min + b.Max) / 2
}

type direction int

const (
	north direction = iota
	south
)

// Solver computes Bounds against a symmetric world latitude limit.
type Solver struct {
	MaxMapLatitude float64
}

// NewSolver creates a solver for the given world latitude limit. Non-positive
// values select DefaultMaxMapLatitude.
func NewSolver(maxMapLatitude float64) *Solver {
	if maxMapLatitude <= 0 || maxMapLatitude > 90 {
		maxMapLatitude = DefaultMaxMapLatitude
	}
	return &Solver{MaxMapLatitude: maxMapLatitude}
}

var defaultSolver = NewSolver(DefaultMaxMapLatitude)

// Compute uses the default world limit. See (*Solver).Compute.
func Compute(reference models.LatLng, polygons models.PolygonSet, maxLatitude, minLatitude float64) Bounds {
	return defaultSolver.Compute(reference, polygons, maxLatitude, minLatitude)
}

// World computes bounds against the solver's world limits only.
func (s *Solver) World(reference models.LatLng, polygons models.PolygonSet) Bounds {
	return s.Compute(reference, polygons, s.MaxMapLatitude, -s.MaxMapLatitude)
}

// Compute returns the latitude range for reference so that every vertex of
// polygons stays between minLatitude and maxLatitude. Limits other than the
// world limit are treated as a viewport: the result then also keeps every
// vertex inside the world limits.
func (s *Solver) Compute(reference models.LatLng, polygons models.PolygonSet, maxLatitude, minLatitude float64) Bounds {
	if math.IsNaN(reference.Lat) || math.IsNaN(reference.Lng) {
		panic("bounds: NaN reference point")
	}

	c := constraint{reference: reference, points: flatten(polygons)}

	toNorthEdge := c.distanceToLimit(north, s.MaxMapLatitude)
	toSouthEdge := c.distanceToLimit(south, -s.MaxMapLatitude)

	toNorth := toNorthEdge
	if maxLatitude != s.MaxMapLatitude {
		toNorth = math.Min(toNorthEdge, math.Max(-toSouthEdge, c.distanceToLimit(north, maxLatitude)))
	}
	toSouth := toSouthEdge
	if minLatitude != -s.MaxMapLatitude {
		toSouth = math.Min(toSouthEdge, math.Max(-toNorthEdge, c.distanceToLimit(south, minLatitude)))
	}

	return Bounds{
		Min: spherical.Offset(reference, toSouth, 180).Lat,
		Max: spherical.Offset(reference, toNorth, 0).Lat,
	}
}

type constraint struct {
	reference models.LatLng
	points    []models.LatLng
}

// distanceToLimit returns how far (radians) the reference point may travel
// towards the limit before the first vertex reaches it. A negative value is
// the distance it must travel back because some vertices are already past.
func (c constraint) distanceToLimit(dir direction, limit float64) float64 {
	n := meridianNormal(c.reference)
	z0 := math.Sin(spherical.ToRadians(limit))

	var past, inside []models.LatLng
	for _, p := range c.points {
		beyond := p.Lat > limit
		if dir == south {
			beyond = p.Lat <= limit
		}
		if beyond {
			past = append(past, p)
		} else {
			inside = append(inside, p)
		}
	}

	if len(past) == 0 {
		room := math.Inf(1)
		for _, p := range inside {
			if d, ok := circleDistance(n, z0, p); ok {
				room = math.Min(room, d)
			}
		}
		if math.IsInf(room, 1) {
			// Nothing can reach the limit, the reference point itself may.
			return math.Abs(spherical.ToRadians(limit - c.reference.Lat))
		}
		return room
	}

	overshoot := 0.0
	for _, p := range past {
		if d, ok := circleDistance(n, z0, p); ok {
			overshoot = math.Max(overshoot, d)
		}
	}
	return -overshoot
}

// meridianNormal returns the unit normal of the plane through the sphere's
// center containing the reference point's meridian, normalize(y, -x, 0).
func meridianNormal(reference models.LatLng) spherical.Vector {
	c := spherical.ToUnitVector(reference)
	n := spherical.Vector{X: c.Y, Y: -c.X}
	if n.Norm() < 1e-12 {
		// At a pole every meridian qualifies, take the one of the given longitude.
		lng := spherical.ToRadians(reference.Lng)
		return spherical.Vector{X: math.Sin(lng), Y: -math.Cos(lng)}
	}
	return n.Normalize()
}

// circleDistance measures the arc from p to the plane z = z0 along the circle
// in which the plane with normal n through p cuts the unit sphere. It reports
// false when that circle never reaches z0.
func circleDistance(n spherical.Vector, z0 float64, point models.LatLng) (float64, bool) {
	p := spherical.ToUnitVector(point)

	// Plane A*x + B*y + D = 0 through p; n is unit so rho = |D|.
	d := -n.X*p.X - n.Y*p.Y
	rho := math.Abs(d) / math.Hypot(n.X, n.Y)
	if rho >= 1 {
		return 0, false
	}
	r := math.Sqrt(1 - rho*rho)

	if math.Abs(z0) > r {
		return 0, false
	}

	phi1 := math.Asin(clampUnit(p.Z / r))
	phi2 := math.Asin(z0 / r)

	return math.Abs(r * (phi2 - phi1)), true
}

func flatten(polygons models.PolygonSet) []models.LatLng {
	points := make([]models.LatLng, 0, polygons.VertexCount())
	for _, polygon := range polygons {
		if !polygon.Valid() {
			continue
		}
		points = append(points, polygon...)
	}
	return points
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
