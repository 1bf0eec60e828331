package main

import (
	"fmt"
	"math/rand"

	"github.com/kass/mercator-puzzle/pkg/continents"
	"github.com/kass/mercator-puzzle/pkg/country"
	"github.com/kass/mercator-puzzle/pkg/disposition"
	"github.com/kass/mercator-puzzle/pkg/game"
	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/rtree"
)

// box builds a rough rectangular outline
func box(south, west, north, east float64) models.PolygonSet {
	return models.PolygonSet{{
		{Lat: south, Lng: west},
		{Lat: south, Lng: east},
		{Lat: north, Lng: east},
		{Lat: north, Lng: west},
		{Lat: south, Lng: west},
	}}
}

func main() {
	// An index that follows every move of the countries
	index := rtree.NewIndex()

	countries := []*country.Country{
		country.New("FRA", "France", box(42.3, -4.8, 51.1, 8.2), country.WithSink(index)),
		country.New("ESP", "Spain", box(36.0, -9.3, 43.8, 3.3), country.WithSink(index)),
		country.New("ITA", "Italy", box(36.6, 6.6, 47.1, 18.5), country.WithSink(index)),
		country.New("ISL", "Iceland", box(63.3, -24.5, 66.6, -13.5), country.WithSink(index)),
		country.New("NOR", "Norway", box(58.0, 4.6, 71.2, 31.1), country.WithSink(index)),
	}
	index.Insert(countries...)

	// Example 1: rectangles and latitude bounds
	fmt.Println("=== Rectangles and latitude bounds ===")
	for _, c := range countries {
		b := c.LatitudeBounds()
		fmt.Printf("  - %s: %s, center can move between %.2f and %.2f\n", c, c.InitialRect(), b.Min, b.Max)
	}

	// Example 2: scatter the countries over Europe
	fmt.Println("\n=== Random placement over Europe ===")
	d := disposition.New(continents.Europe.Viewport(), disposition.WithRand(rand.New(rand.NewSource(1))))
	for _, w := range d.Apply(countries) {
		fmt.Printf("  ! %s\n", w)
	}
	for _, c := range countries {
		center := c.CurrentCenter()
		fmt.Printf("  - %s: (%.4f, %.4f), %.0f km from target\n", c.ID, center.Lat, center.Lng, c.DistanceToTarget()/1000)
	}

	// Example 3: which country is under the finger
	fmt.Println("\n=== Hit test ===")
	spain := countries[1]
	for _, c := range index.QueryPoint(spain.CurrentCenter()) {
		fmt.Printf("  - %s is under the center of Spain\n", c.Name)
	}

	// Example 4: drag Spain home and snap it
	fmt.Println("\n=== Snapping ===")
	target := spain.TargetCenter()
	spain.SetCurrentCenter(models.LatLng{Lat: target.Lat + 1, Lng: target.Lng - 1})
	if spain.IsCloseToTarget() && spain.Fix() {
		fmt.Printf("  - %s fixed, worth %d coins\n", spain.Name, game.CoinsByArea(spain.Area()))
	}
}
