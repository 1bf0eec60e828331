package spherical

import (
	"github.com/golang/geo/s2"

	"github.com/kass/mercator-puzzle/pkg/models"
)

// Loop converts a closed ring to an s2 loop. Rings are assumed to cover less
// than a hemisphere, so the orientation is picked accordingly. Returns nil for
// malformed rings.
func Loop(ring models.Polygon) *s2.Loop {
	pts := ringPoints(ring)
	if len(pts) < 3 {
		return nil
	}
	// The shoelace test is planar and misses rings crossing the antimeridian,
	// the cap check below catches those.
	reverse := isClockwise(ring)
	l := loopFromPoints(pts, reverse)
	if l.CapBound().Radius().Degrees() > 90 {
		l = loopFromPoints(pts, !reverse)
	}
	return l
}

// RingArea returns the area enclosed by ring in square meters.
func RingArea(ring models.Polygon) float64 {
	l := Loop(ring)
	if l == nil {
		return 0
	}
	return l.Area() * EarthRadius * EarthRadius
}

// Area returns the total area of the valid rings of s in square meters.
func Area(s models.PolygonSet) float64 {
	var area float64
	for _, ring := range s {
		area += RingArea(ring)
	}
	return area
}

// ContainsLocation reports whether p lies inside ring.
func ContainsLocation(p models.LatLng, ring models.Polygon) bool {
	l := Loop(ring)
	if l == nil {
		return false
	}
	return l.ContainsPoint(toS2(p))
}

func toS2(p models.LatLng) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng))
}

// ringPoints drops the closing vertex and consecutive duplicates, s2 loops
// are implicitly closed and reject repeated points.
func ringPoints(ring models.Polygon) []s2.Point {
	if !ring.Valid() {
		return nil
	}
	pts := make([]s2.Point, 0, len(ring))
	for i, v := range ring {
		if i > 0 && v == ring[i-1] {
			continue
		}
		pts = append(pts, toS2(v))
	}
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func loopFromPoints(pts []s2.Point, reverse bool) *s2.Loop {
	if !reverse {
		return s2.LoopFromPoints(pts)
	}
	reversed := make([]s2.Point, len(pts))
	for i, p := range pts {
		reversed[len(pts)-1-i] = p
	}
	return s2.LoopFromPoints(reversed)
}

func isClockwise(ring models.Polygon) bool {
	var a float64
	n := len(ring)
	for i := 0; i < n; i++ {
		p1 := ring[i]
		p2 := ring[(i+1)%n]
		a += (p2.Lng - p1.Lng) * (p1.Lat + p2.Lat)
	}
	return a > 0
}

// Loops converts every valid ring of s, in order.
func Loops(s models.PolygonSet) []*s2.Loop {
	loops := make([]*s2.Loop, 0, len(s))
	for _, ring := range s {
		if l := Loop(ring); l != nil {
			loops = append(loops, l)
		}
	}
	return loops
}

// AnyContains reports whether p lies inside any of loops.
func AnyContains(loops []*s2.Loop, p models.LatLng) bool {
	pt := toS2(p)
	for _, l := range loops {
		if l.ContainsPoint(pt) {
			return true
		}
	}
	return false
}
