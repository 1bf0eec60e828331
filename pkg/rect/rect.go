// Package rect computes the latitude/longitude rectangle that circumscribes a
// set of polygons on the sphere, including shapes that straddle the antimeridian.
package rect

import (
	"fmt"
	"math"
	"sort"

	"github.com/kass/mercator-puzzle/pkg/models"
)

// Rect is a rectangle in longitude/latitude degrees. Left > Right means the
// rectangle crosses the antimeridian.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Center returns the midpoint of the rectangle, wrap-aware.
func (r Rect) Center() models.LatLng {
	lat := (r.Top + r.Bottom) / 2
	var lng float64
	if r.Left <= r.Right {
		lng = (r.Left + r.Right) / 2
	} else {
		lng = math.Mod((r.Left+r.Right)/2+360.0, 360.0) - 180.0
	}
	return models.LatLng{Lat: lat, Lng: lng}
}

// Width returns the longitude span in degrees.
func (r Rect) Width() float64 {
	if r.Left <= r.Right {
		return r.Right - r.Left
	}
	return 360.0 - r.Left + r.Right
}

// Height returns the latitude span in degrees.
func (r Rect) Height() float64 {
	return r.Top - r.Bottom
}

// Viewport returns the rectangle as a map viewport.
func (r Rect) Viewport() models.Viewport {
	return models.Viewport{
		Northeast: models.LatLng{Lat: r.Top, Lng: r.Right},
		Southwest: models.LatLng{Lat: r.Bottom, Lng: r.Left},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.4f, %.4f .. %.4f, %.4f]", r.Bottom, r.Left, r.Top, r.Right)
}

// Compute returns the bounding rectangle of the valid rings of polygons.
//
// Top and bottom are the extreme latitudes. Left and right come from the
// largest gap between sorted longitudes, taken circularly: that gap is assumed
// to be the part of the globe the shape does not occupy, and the rectangle is
// its complement. Ties keep the first gap found in sort order.
//
// Compute panics when polygons holds no valid ring.
func Compute(polygons models.PolygonSet) Rect {
	longitudes := make([]float64, 0, polygons.VertexCount())
	minLat, maxLat := math.Inf(1), math.Inf(-1)

	for _, polygon := range polygons {
		if !polygon.Valid() {
			continue
		}
		for _, p := range polygon {
			if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
				panic(fmt.Sprintf("rect: NaN coordinate %v", p))
			}
			longitudes = append(longitudes, p.Lng)
			minLat = math.Min(minLat, p.Lat)
			maxLat = math.Max(maxLat, p.Lat)
		}
	}
	if len(longitudes) == 0 {
		panic("rect: polygon set has no valid vertices")
	}

	sort.Float64s(longitudes)

	n := len(longitudes) - 1
	maxGap := -1.0
	var gapStart, gapEnd float64
	for i := 0; i <= n; i++ {
		var gap float64
		if i < n {
			gap = longitudes[i+1] - longitudes[i]
		} else {
			gap = longitudes[0] + 360.0 - longitudes[n]
		}

		if gap > maxGap {
			maxGap = gap
			if i < n {
				gapStart, gapEnd = longitudes[i], longitudes[i+1]
			} else {
				gapStart, gapEnd = longitudes[n], longitudes[0]
			}
		}
	}

	return Rect{Left: gapEnd, Top: maxLat, Right: gapStart, Bottom: minLat}
}
