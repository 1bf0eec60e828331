// Package vertices expresses polygon vertices through bearing and distance from
// a reference point, so a shape can be replayed around any other reference
// point. Replaying keeps bearings relative to north, so a shape dragged far
// north or south turns differently than it would along the drag path.
package vertices

import (
	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/spherical"
)

// RelativeVertex is one vertex seen from the reference point
type RelativeVertex struct {
	Bearing  float64 `json:"bearing"`  // degrees, [0, 360)
	Distance float64 `json:"distance"` // radians of arc
}

// RelativeSet mirrors the ring structure of a models.PolygonSet
type RelativeSet [][]RelativeVertex

// Encode expresses every vertex of the valid rings of polygons relative to
// reference. Ring structure and vertex order are preserved; malformed rings
// are left out.
func Encode(reference models.LatLng, polygons models.PolygonSet) RelativeSet {
	result := make(RelativeSet, 0, len(polygons))
	for _, polygon := range polygons {
		if !polygon.Valid() {
			continue
		}
		ring := make([]RelativeVertex, len(polygon))
		for j, p := range polygon {
			ring[j] = RelativeVertex{
				Bearing:  spherical.Bearing(reference, p),
				Distance: spherical.AngularDistance(reference, p),
			}
		}
		result = append(result, ring)
	}
	return result
}

// Decode computes absolute coordinates of every vertex around newReference.
func (s RelativeSet) Decode(newReference models.LatLng) models.PolygonSet {
	result := make(models.PolygonSet, len(s))
	for i, ring := range s {
		polygon := make(models.Polygon, len(ring))
		for j, v := range ring {
			polygon[j] = spherical.Offset(newReference, v.Distance, v.Bearing)
		}
		result[i] = polygon
	}
	return result
}

// Len returns the number of rings.
func (s RelativeSet) Len() int {
	return len(s)
}
