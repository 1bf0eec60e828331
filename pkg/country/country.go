// Package country holds the draggable country aggregate: its immutable initial
// shape and target position, and the current position that every drag event
// rewrites.
package country

import (
	"fmt"
	"math"
	"sync"

	"github.com/golang/geo/s2"
	"github.com/rs/zerolog"

	"github.com/kass/mercator-puzzle/pkg/bounds"
	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/rect"
	"github.com/kass/mercator-puzzle/pkg/spherical"
	"github.com/kass/mercator-puzzle/pkg/vertices"
)

// Country is one draggable country. Identity is the ID alone.
//
// The current center and the vertices derived from it are read and written as
// one unit; vertex slices returned by the getters are shared snapshots and
// must not be modified.
type Country struct {
	ID   string
	Name string

	initialVertices models.PolygonSet
	initRect        rect.Rect
	targetCenter    models.LatLng
	relative        vertices.RelativeSet
	latitudeBounds  bounds.Bounds
	area            float64

	// writeMu serializes writers through publishing so events stay in order.
	writeMu       sync.Mutex
	mu            sync.RWMutex
	currentCenter models.LatLng
	vertices      models.PolygonSet
	fixed         bool

	sink   Sink
	logger zerolog.Logger
}

// Option configures a Country
type Option func(*options)

type options struct {
	sink   Sink
	solver *bounds.Solver
	logger zerolog.Logger
}

// WithSink sets the receiver of move and fixed events.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithSolver sets the latitude solver, and through it the world limit.
func WithSolver(s *bounds.Solver) Option {
	return func(o *options) { o.solver = s }
}

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a country placed at its correct position. Malformed rings are
// dropped with a warning; New panics if no valid ring remains.
func New(id, name string, polygons models.PolygonSet, opts ...Option) *Country {
	o := options{
		sink:   nopSink{},
		solver: bounds.NewSolver(bounds.DefaultMaxMapLatitude),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	valid := polygons.ValidRings()
	if skipped := len(polygons) - len(valid); skipped > 0 {
		o.logger.Warn().
			Str("country", id).
			Int("skipped", skipped).
			Msg("Skipping malformed polygon rings")
	}
	if len(valid) == 0 {
		panic(fmt.Sprintf("country %s: no valid polygon ring", id))
	}

	initRect := rect.Compute(valid)
	target := initRect.Center()

	c := &Country{
		ID:              id,
		Name:            name,
		initialVertices: valid,
		initRect:        initRect,
		targetCenter:    target,
		relative:        vertices.Encode(target, valid),
		latitudeBounds:  o.solver.World(target, valid),
		area:            spherical.Area(valid),
		currentCenter:   target,
		sink:            o.sink,
		logger:          o.logger,
	}
	c.vertices = c.relative.Decode(target)
	return c
}

// SetCurrentCenter moves the country. The latitude is clamped into the
// country's latitude bounds first, then the vertices are replayed around the
// clamped point and a Moved event is published. A fixed country no longer
// moves: the call returns a Change with Previous equal to Current and
// publishes nothing.
func (c *Country) SetCurrentCenter(p models.LatLng) Change {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		panic(fmt.Sprintf("country %s: NaN center", c.ID))
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	fixed, current := c.fixed, c.currentCenter
	c.mu.RUnlock()
	if fixed {
		c.logger.Debug().Str("country", c.ID).Msg("Ignoring move of fixed country")
		return Change{ID: c.ID, Previous: current, Current: current}
	}

	clamped := models.LatLng{
		Lat: c.latitudeBounds.Clamp(p.Lat),
		Lng: spherical.WrapLongitude(p.Lng),
	}
	change := c.move(clamped, c.relative.Decode(clamped), false)
	c.sink.Publish(Event{Kind: Moved, Change: change})
	return change
}

// move swaps the center and vertices, callers hold writeMu.
func (c *Country) move(center models.LatLng, verts models.PolygonSet, fix bool) Change {
	c.mu.Lock()
	previous := c.currentCenter
	c.currentCenter = center
	c.vertices = verts
	if fix {
		c.fixed = true
	}
	c.mu.Unlock()

	return Change{ID: c.ID, Previous: previous, Current: center}
}

// Fix snaps the country onto its target and marks it fixed. It reports false
// when the country was already fixed. The snap restores the loaded shape
// exactly, bypassing the latitude clamp, so polar countries whose target lies
// outside their latitude bounds still end up on TargetCenter.
func (c *Country) Fix() bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	fixed := c.fixed
	c.mu.RUnlock()
	if fixed {
		return false
	}

	change := c.move(c.targetCenter, c.initialVertices, true)
	c.sink.Publish(Event{Kind: Moved, Change: change})
	c.sink.Publish(Event{Kind: Fixed, Change: Change{ID: c.ID, Previous: change.Current, Current: change.Current}})
	return true
}

// CurrentCenter returns the point the shape is anchored to.
func (c *Country) CurrentCenter() models.LatLng {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentCenter
}

// Vertices returns the current shape.
func (c *Country) Vertices() models.PolygonSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vertices
}

// Snapshot returns the current center and the vertices derived from it.
func (c *Country) Snapshot() (models.LatLng, models.PolygonSet) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentCenter, c.vertices
}

// IsFixed reports whether the country has been placed correctly.
func (c *Country) IsFixed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fixed
}

// TargetCenter returns the correct position of the country.
func (c *Country) TargetCenter() models.LatLng {
	return c.targetCenter
}

// InitialVertices returns the shape as loaded.
func (c *Country) InitialVertices() models.PolygonSet {
	return c.initialVertices
}

// InitialRect returns the rectangle of the shape as loaded.
func (c *Country) InitialRect() rect.Rect {
	return c.initRect
}

// Rect returns the rectangle of the current shape.
func (c *Country) Rect() rect.Rect {
	return rect.Compute(c.Vertices())
}

// LatitudeBounds returns the range the current center latitude is clamped to.
func (c *Country) LatitudeBounds() bounds.Bounds {
	return c.latitudeBounds
}

// Area returns the area of the country in square meters.
func (c *Country) Area() float64 {
	return c.area
}

// DistanceToTarget returns the great-circle distance in meters from the
// current center to the target center. It is informational only, snapping
// uses IsCloseToTarget.
func (c *Country) DistanceToTarget() float64 {
	return spherical.Distance(c.CurrentCenter(), c.targetCenter)
}

// IsCloseToTarget reports whether the current center lies within half the
// initial rectangle of the target on both axes.
func (c *Country) IsCloseToTarget() bool {
	current := c.CurrentCenter()
	distY := math.Abs(c.targetCenter.Lat - current.Lat)
	distX := spherical.LongitudeDistance(c.targetCenter.Lng, current.Lng)
	return distX < c.initRect.Width()/2 && distY < c.initRect.Height()/2
}

// Contains reports whether p lies inside any ring of the current shape.
func (c *Country) Contains(p models.LatLng) bool {
	return spherical.AnyContains(spherical.Loops(c.Vertices()), p)
}

// Intersects reports whether any current vertex of either country lies inside
// the other. It is expensive and meant for deciding redraw order only.
func (c *Country) Intersects(other *Country) bool {
	mine, theirs := c.Vertices(), other.Vertices()
	return anyVertexInside(mine, spherical.Loops(theirs)) ||
		anyVertexInside(theirs, spherical.Loops(mine))
}

func anyVertexInside(polygons models.PolygonSet, loops []*s2.Loop) bool {
	for _, ring := range polygons {
		for _, p := range ring {
			if spherical.AnyContains(loops, p) {
				return true
			}
		}
	}
	return false
}

// Equal reports whether c and other are the same country.
func (c *Country) Equal(other *Country) bool {
	return other != nil && c.ID == other.ID
}

// Key returns the identity used for maps and sets.
func (c *Country) Key() string {
	return c.ID
}

func (c *Country) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}
