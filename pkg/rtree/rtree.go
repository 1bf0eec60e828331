// Package rtree implements an R-Tree hit-test index over the current
// rectangles of placed countries, answering which countries lie under a
// touch point or inside a visible region.
package rtree

import (
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/kass/mercator-puzzle/pkg/country"
	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/rect"
)

const (
	tolerance   = 0.01
	minChildren = 25
	maxChildren = 50
	dimensions  = 2
)

// entry is one rectangle piece of a country. Countries crossing the
// antimeridian are stored as two pieces.
type entry struct {
	country *country.Country
	rect    *rtreego.Rect
}

func (e *entry) Bounds() *rtreego.Rect {
	return e.rect
}

// Index is a thread-safe R-Tree over country rectangles. It implements
// country.Sink so that countries created with country.WithSink(index) are
// re-indexed on every move.
type Index struct {
	tree    *rtreego.Rtree
	mu      sync.RWMutex
	entries map[string][]*entry
	byID    map[string]*country.Country
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		tree:    rtreego.NewTree(dimensions, minChildren, maxChildren),
		entries: make(map[string][]*entry),
		byID:    make(map[string]*country.Country),
	}
}

// Insert indexes countries at their current position. Countries already in
// the index are re-indexed.
func (ix *Index) Insert(countries ...*country.Country) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, c := range countries {
		if c == nil {
			continue
		}
		ix.insertLocked(c)
	}
}

// Update re-indexes c after it moved. It reports false when c is not indexed.
func (ix *Index) Update(c *country.Country) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.byID[c.ID]; !ok {
		return false
	}
	ix.insertLocked(c)
	return true
}

// Remove drops c from the index
func (ix *Index) Remove(c *country.Country) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.byID[c.ID]; !ok {
		return false
	}
	ix.removeLocked(c.ID)
	return true
}

// Publish keeps the index in sync with country moves.
func (ix *Index) Publish(ev country.Event) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	c, ok := ix.byID[ev.ID]
	if !ok {
		return
	}
	ix.insertLocked(c)
}

// Get returns the indexed country with the given id.
func (ix *Index) Get(id string) (*country.Country, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	c, ok := ix.byID[id]
	return c, ok
}

// Candidates returns the countries whose rectangle contains p.
func (ix *Index) Candidates(p models.LatLng) []*country.Country {
	query := rtreego.Point{p.Lat, p.Lng}.ToRect(tolerance)

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return collect(ix.tree.SearchIntersect(query))
}

// QueryPoint returns the countries whose current shape contains p, the
// rectangle search being refined with a point-in-polygon test.
func (ix *Index) QueryPoint(p models.LatLng) []*country.Country {
	var hits []*country.Country
	for _, c := range ix.Candidates(p) {
		if c.Contains(p) {
			hits = append(hits, c)
		}
	}
	return hits
}

// QueryViewport returns the countries whose rectangle intersects the viewport.
func (ix *Index) QueryViewport(vp models.Viewport) []*country.Country {
	r := rect.Rect{
		Left:   vp.Southwest.Lng,
		Top:    vp.Northeast.Lat,
		Right:  vp.Northeast.Lng,
		Bottom: vp.Southwest.Lat,
	}
	pieces := rectsFor(r)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var results []rtreego.Spatial
	for _, piece := range pieces {
		results = append(results, ix.tree.SearchIntersect(piece)...)
	}
	return collect(results)
}

// Overlapping returns the other countries whose current shape intersects c.
func (ix *Index) Overlapping(c *country.Country) []*country.Country {
	pieces := rectsFor(c.Rect())

	ix.mu.RLock()
	var results []rtreego.Spatial
	for _, piece := range pieces {
		results = append(results, ix.tree.SearchIntersect(piece)...)
	}
	ix.mu.RUnlock()

	var overlapping []*country.Country
	for _, other := range collect(results) {
		if other.Equal(c) {
			continue
		}
		if c.Intersects(other) {
			overlapping = append(overlapping, other)
		}
	}
	return overlapping
}

// Countries returns every indexed country ordered by id.
func (ix *Index) Countries() []*country.Country {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	all := make([]*country.Country, 0, len(ix.byID))
	for _, c := range ix.byID {
		all = append(all, c)
	}
	sortByID(all)
	return all
}

// Count returns the number of indexed countries
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byID)
}

// Clear removes all countries from the index
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.tree = rtreego.NewTree(dimensions, minChildren, maxChildren)
	ix.entries = make(map[string][]*entry)
	ix.byID = make(map[string]*country.Country)
}

func (ix *Index) insertLocked(c *country.Country) {
	pieces := rectsFor(c.Rect())

	ix.removeLocked(c.ID)
	entries := make([]*entry, 0, len(pieces))
	for _, piece := range pieces {
		e := &entry{country: c, rect: piece}
		ix.tree.Insert(e)
		entries = append(entries, e)
	}
	ix.entries[c.ID] = entries
	ix.byID[c.ID] = c
}

func (ix *Index) removeLocked(id string) {
	for _, e := range ix.entries[id] {
		ix.tree.Delete(e)
	}
	delete(ix.entries, id)
	delete(ix.byID, id)
}

// rectsFor converts a rectangle into R-Tree rectangles in (lat, lng) space,
// splitting it at the antimeridian.
func rectsFor(r rect.Rect) []*rtreego.Rect {
	if r.Left <= r.Right {
		return []*rtreego.Rect{box(r.Bottom, r.Left, r.Top, r.Right)}
	}
	return []*rtreego.Rect{
		box(r.Bottom, r.Left, r.Top, 180),
		box(r.Bottom, -180, r.Top, r.Right),
	}
}

func box(bottom, left, top, right float64) *rtreego.Rect {
	lengths := []float64{
		max(top-bottom, tolerance),
		max(right-left, tolerance),
	}
	// Lengths are positive, NewRect cannot fail.
	r, _ := rtreego.NewRect(rtreego.Point{bottom, left}, lengths)
	return r
}

// collect deduplicates search results, countries split at the antimeridian
// being hit twice, and orders them by id.
func collect(results []rtreego.Spatial) []*country.Country {
	seen := make(map[string]bool, len(results))
	countries := make([]*country.Country, 0, len(results))
	for _, result := range results {
		e, ok := result.(*entry)
		if !ok || seen[e.country.ID] {
			continue
		}
		seen[e.country.ID] = true
		countries = append(countries, e.country)
	}
	sortByID(countries)
	return countries
}

func sortByID(countries []*country.Country) {
	sort.Slice(countries, func(i, j int) bool {
		return countries[i].ID < countries[j].ID
	})
}
