// Package game runs a puzzle round: countries are handed out in laps of a few
// at a time, scattered over the continent, and fixed once the player drops
// them close enough to their real position.
package game

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kass/mercator-puzzle/pkg/continents"
	"github.com/kass/mercator-puzzle/pkg/country"
	"github.com/kass/mercator-puzzle/pkg/disposition"
	"github.com/kass/mercator-puzzle/pkg/models"
)

// DefaultLapPortion is the number of countries handed out per lap.
const DefaultLapPortion = 5

// Areas in square meters and the coins they are worth.
const (
	areaMin  = 6.207619853456295e9   // Cyprus
	areaMid  = 9.981311725489886e11  // Egypt
	areaMax  = 1.6895055366061375e13 // Russia
	coinsMin = 1.0
	coinsMid = 50.0
	coinsMax = 100.0
)

// CoinsByArea returns the reward for placing a country of the given area.
// Small countries are harder to place and are worth more.
func CoinsByArea(area float64) int {
	var coins float64
	switch {
	case area <= areaMin:
		coins = coinsMax
	case area <= areaMid:
		coins = (coinsMax-coinsMid)*math.Pow(area-areaMid, 4)/math.Pow(areaMin-areaMid, 4) + coinsMid
	case area <= areaMax:
		coins = (coinsMid-coinsMin)*math.Pow(area-areaMax, 2)/math.Pow(areaMid-areaMax, 2) + coinsMin
	default:
		coins = coinsMin
	}
	return int(math.Ceil(coins))
}

// Round is one game on a continent
type Round struct {
	mu         sync.Mutex
	continent  continents.Continent
	countries  []*country.Country
	lapPortion int
	rnd        *rand.Rand
	placer     *disposition.Disposition
	logger     zerolog.Logger
	now        func() time.Time

	lap      []*country.Country
	lapCoins int
	result   Result
}

// Option configures a Round
type Option func(*Round)

// WithLapPortion sets how many countries each lap hands out.
func WithLapPortion(n int) Option {
	return func(r *Round) {
		if n > 0 {
			r.lapPortion = n
		}
	}
}

// WithRand sets the random source used for shuffling and placement.
func WithRand(rnd *rand.Rand) Option {
	return func(r *Round) { r.rnd = rnd }
}

// WithDisposition overrides the placement of lap countries.
func WithDisposition(d *disposition.Disposition) Option {
	return func(r *Round) { r.placer = d }
}

// WithLogger sets the round logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Round) { r.logger = l }
}

// WithClock sets the time source for the result timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Round) { r.now = now }
}

// NewRound starts a round on continent with the given countries. A continent
// without an outline plays on the whole world.
func NewRound(continent continents.Continent, countries []*country.Country, opts ...Option) *Round {
	r := &Round{
		continent:  continent,
		countries:  countries,
		lapPortion: DefaultLapPortion,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.placer == nil {
		viewport := models.WorldViewport()
		if continent.Outline.Valid() {
			viewport = continent.Viewport()
		}
		r.placer = disposition.New(viewport,
			disposition.WithRand(r.rnd),
			disposition.WithLogger(r.logger))
	}

	r.result = Result{
		Continent: continent.Key,
		Total:     len(countries),
		Start:     r.now(),
	}
	return r
}

// NextLap hands out up to the lap portion of shuffled unfixed countries and
// scatters them over the map. When every country is fixed the round finishes
// and NextLap returns nothing.
func (r *Round) NextLap() ([]*country.Country, []disposition.Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lapCoins = 0
	var unfixed []*country.Country
	for _, c := range r.countries {
		if !c.IsFixed() {
			unfixed = append(unfixed, c)
		}
	}

	if len(unfixed) == 0 {
		r.lap = nil
		if r.result.Finish.IsZero() {
			r.result.Finish = r.now()
			r.logger.Info().
				Str("continent", r.result.Continent).
				Int("coins", r.result.Coins).
				Dur("duration", r.result.Duration()).
				Msg("Round finished")
		}
		return nil, nil
	}

	r.rnd.Shuffle(len(unfixed), func(i, j int) {
		unfixed[i], unfixed[j] = unfixed[j], unfixed[i]
	})
	if len(unfixed) > r.lapPortion {
		unfixed = unfixed[:r.lapPortion]
	}
	r.lap = unfixed

	warnings := r.placer.Apply(unfixed)
	r.logger.Debug().
		Int("countries", len(unfixed)).
		Int("warnings", len(warnings)).
		Msg("New lap")
	return unfixed, warnings
}

// Lap returns the countries of the current lap.
func (r *Round) Lap() []*country.Country {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lap
}

// TryPlace fixes c when it was dropped close to its target and returns the
// coins earned. It reports false when c is too far or already fixed.
func (r *Round) TryPlace(c *country.Country) (int, bool) {
	if !c.IsCloseToTarget() {
		return 0, false
	}
	if !c.Fix() {
		return 0, false
	}

	coins := CoinsByArea(c.Area())

	r.mu.Lock()
	r.lapCoins += coins
	r.result.Coins += coins
	r.result.Progress++
	r.mu.Unlock()

	r.logger.Debug().
		Str("country", c.ID).
		Int("coins", coins).
		Msg("Country fixed")
	return coins, true
}

// LapIncome returns the coins earned since the current lap started.
func (r *Round) LapIncome() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lapCoins
}

// Finished reports whether every country has been fixed.
func (r *Round) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.result.Finish.IsZero()
}

// Result returns the record of the round so far.
func (r *Round) Result() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// Countries returns all countries of the round.
func (r *Round) Countries() []*country.Country {
	return r.countries
}

// Continent returns the continent the round is played on.
func (r *Round) Continent() continents.Continent {
	return r.continent
}
