// Package loader builds countries from a GeoJSON FeatureCollection. Only
// outer rings are kept: a Polygon becomes one ring and a MultiPolygon one
// ring per member polygon.
package loader

import (
	"fmt"
	"io"
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/rs/zerolog"

	"github.com/kass/mercator-puzzle/pkg/continents"
	"github.com/kass/mercator-puzzle/pkg/country"
	"github.com/kass/mercator-puzzle/pkg/models"
)

// DefaultExclude lists the ids skipped unless WithExclude overrides it.
// Antarctica spans the pole and cannot be moved around.
var DefaultExclude = []string{"ATA"}

// Option configures parsing
type Option func(*options)

type options struct {
	logger         zerolog.Logger
	exclude        map[string]bool
	continents     []continents.Continent
	countryOptions []country.Option
}

// WithLogger sets the logger for skipped features.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithExclude replaces the list of skipped ids.
func WithExclude(ids ...string) Option {
	return func(o *options) {
		o.exclude = make(map[string]bool, len(ids))
		for _, id := range ids {
			o.exclude[id] = true
		}
	}
}

// WithContinents keeps only the countries overlapping one of the continents,
// grouped by continent in the given order.
func WithContinents(cs ...continents.Continent) Option {
	return func(o *options) { o.continents = cs }
}

// WithCountryOptions passes options to every created country.
func WithCountryOptions(opts ...country.Option) Option {
	return func(o *options) { o.countryOptions = append(o.countryOptions, opts...) }
}

// ParseFile reads and parses a GeoJSON file
func ParseFile(filename string, opts ...Option) ([]*country.Country, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return Parse(data, opts...)
}

// Read parses GeoJSON from r
func Read(r io.Reader, opts ...Option) ([]*country.Country, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read geojson: %w", err)
	}
	return Parse(data, opts...)
}

// Parse converts a FeatureCollection into countries. Features with an
// unknown geometry type or without a valid ring are skipped with a warning.
func Parse(data []byte, opts ...Option) ([]*country.Country, error) {
	o := options{logger: zerolog.Nop()}
	WithExclude(DefaultExclude...)(&o)
	for _, opt := range opts {
		opt(&o)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode feature collection: %w", err)
	}

	var countries []*country.Country
	for i, f := range fc.Features {
		id := featureID(f)
		if id == "" {
			o.logger.Warn().Int("feature", i).Msg("Skipping feature without id")
			continue
		}
		if o.exclude[id] {
			continue
		}

		name := f.PropertyMustString("name", id)
		polygons, ok := polygonsOf(f.Geometry)
		if !ok {
			o.logger.Warn().Str("country", id).Str("name", name).Msg("Unknown GeoJSON geometry")
			continue
		}
		if len(polygons.ValidRings()) == 0 {
			o.logger.Warn().Str("country", id).Str("name", name).Msg("No valid polygon ring")
			continue
		}

		countryOpts := append([]country.Option{country.WithLogger(o.logger)}, o.countryOptions...)
		countries = append(countries, country.New(id, name, polygons, countryOpts...))
	}

	o.logger.Debug().Int("countries", len(countries)).Msg("GeoJSON parsed")

	if len(o.continents) == 0 {
		return countries, nil
	}

	var filtered []*country.Country
	for _, k := range o.continents {
		filtered = append(filtered, k.Filter(countries)...)
	}
	return filtered, nil
}

func featureID(f *geojson.Feature) string {
	switch id := f.ID.(type) {
	case string:
		return id
	case nil:
		return f.PropertyMustString("id", "")
	default:
		return fmt.Sprint(id)
	}
}

func polygonsOf(g *geojson.Geometry) (models.PolygonSet, bool) {
	if g == nil {
		return nil, false
	}

	switch g.Type {
	case geojson.GeometryPolygon:
		return models.PolygonSet{outerRing(g.Polygon)}, true
	case geojson.GeometryMultiPolygon:
		set := make(models.PolygonSet, 0, len(g.MultiPolygon))
		for _, polygon := range g.MultiPolygon {
			set = append(set, outerRing(polygon))
		}
		return set, true
	default:
		return nil, false
	}
}

// outerRing converts the first linear ring, swapping GeoJSON's [lng, lat]
// order. Holes are ignored.
func outerRing(polygon [][][]float64) models.Polygon {
	if len(polygon) == 0 {
		return nil
	}
	ring := make(models.Polygon, 0, len(polygon[0]))
	for _, pair := range polygon[0] {
		if len(pair) < 2 {
			return nil
		}
		ring = append(ring, models.LatLng{Lat: pair[1], Lng: pair[0]})
	}
	return ring
}
