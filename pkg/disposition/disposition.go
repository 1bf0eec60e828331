// Package disposition scatters countries at random over a viewport at the start
// of a round, keeping every country's shape inside the viewport and away from
// the map's distorted polar regions. Countries may overlap.
package disposition

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/kass/mercator-puzzle/pkg/bounds"
	"github.com/kass/mercator-puzzle/pkg/country"
	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/spherical"
)

// WarningKind names the axis that lacked room
type WarningKind string

const (
	VerticalRoom   WarningKind = "vertical"
	HorizontalRoom WarningKind = "horizontal"
)

// Warning reports a country that did not fit and was centered instead.
type Warning struct {
	CountryID   string
	CountryName string
	Kind        WarningKind
	// Available and Required are degrees of latitude or longitude.
	Available float64
	Required  float64
}

func (w Warning) String() string {
	return fmt.Sprintf("not enough %s space for %s: available %.4f, required %.4f",
		w.Kind, w.CountryName, w.Available, w.Required)
}

// Disposition places countries within a viewport
type Disposition struct {
	viewport models.Viewport
	rnd      *rand.Rand
	solver   *bounds.Solver
	logger   zerolog.Logger
}

// Option configures a Disposition
type Option func(*Disposition)

// WithRand sets the random source, mostly for reproducible layouts.
func WithRand(r *rand.Rand) Option {
	return func(d *Disposition) { d.rnd = r }
}

// WithSolver sets the latitude solver.
func WithSolver(s *bounds.Solver) Option {
	return func(d *Disposition) { d.solver = s }
}

// WithLogger sets the logger for placement warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Disposition) { d.logger = l }
}

// New creates a Disposition for viewport.
func New(viewport models.Viewport, opts ...Option) *Disposition {
	d := &Disposition{
		viewport: viewport,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		solver:   bounds.NewSolver(bounds.DefaultMaxMapLatitude),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Viewport returns the area countries are placed on.
func (d *Disposition) Viewport() models.Viewport {
	return d.viewport
}

// Apply moves every country to a random position inside the viewport. When a
// country is too big for the viewport on an axis it is centered on that axis
// and a Warning is returned for it.
func (d *Disposition) Apply(countries []*country.Country) []Warning {
	var warnings []Warning
	for _, c := range countries {
		warnings = append(warnings, d.place(c)...)
	}
	return warnings
}

func (d *Disposition) place(c *country.Country) []Warning {
	var warnings []Warning

	// Latitude first: the room depends on the shape only.
	center, verts := c.Snapshot()
	latBounds := d.solver.Compute(center, verts, d.viewport.Northeast.Lat, d.viewport.Southwest.Lat)

	var lat float64
	if !latBounds.Empty() {
		lat = d.randomInRange(latBounds.Min, latBounds.Max)
	} else {
		lat = latBounds.Midpoint()
		warnings = append(warnings, d.warn(c, VerticalRoom,
			d.viewport.Northeast.Lat-d.viewport.Southwest.Lat, c.InitialRect().Height()))
	}

	// Provisional center on the prime meridian to measure the shape at this latitude.
	c.SetCurrentCenter(models.LatLng{Lat: lat, Lng: 0})
	r := c.Rect()
	diff := spherical.WrapLongitude(r.Left + r.Width()/2)

	west := d.viewport.Southwest.Lng
	length := d.viewport.LongitudeSpan()

	var offset float64
	if length > r.Width() {
		offset = d.randomInRange(0, length-r.Width())
	} else {
		offset = (length - r.Width()) / 2
		warnings = append(warnings, d.warn(c, HorizontalRoom, length, r.Width()))
	}

	lng := spherical.WrapLongitude(west + r.Width()/2 + offset - diff)
	c.SetCurrentCenter(models.LatLng{Lat: c.CurrentCenter().Lat, Lng: lng})

	d.logger.Debug().
		Str("country", c.ID).
		Float64("lat", c.CurrentCenter().Lat).
		Float64("lng", c.CurrentCenter().Lng).
		Msg("Country placed")

	return warnings
}

func (d *Disposition) warn(c *country.Country, kind WarningKind, available, required float64) Warning {
	w := Warning{
		CountryID:   c.ID,
		CountryName: c.Name,
		Kind:        kind,
		Available:   available,
		Required:    required,
	}
	d.logger.Warn().
		Str("country", c.ID).
		Str("axis", string(kind)).
		Float64("available", available).
		Float64("required", required).
		Msg("Not enough space, centering country")
	return w
}

func (d *Disposition) randomInRange(a, b float64) float64 {
	return a + (b-a)*d.rnd.Float64()
}
