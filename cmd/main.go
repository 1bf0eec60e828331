package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kass/mercator-puzzle/pkg/bounds"
	"github.com/kass/mercator-puzzle/pkg/config"
	"github.com/kass/mercator-puzzle/pkg/country"
	"github.com/kass/mercator-puzzle/pkg/disposition"
	"github.com/kass/mercator-puzzle/pkg/game"
	"github.com/kass/mercator-puzzle/pkg/loader"
	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/rtree"
)

var (
	configFile  string
	geojsonFile string
	continent   string
	seed        int64
	verbose     bool

	savePlacements bool
	showHistory    bool

	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mercator-puzzle",
	Short: "Country placement engine of the Mercator puzzle",
	Long:  `Load country outlines, inspect their rectangles and latitude bounds, scatter them over a map area and play rounds.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

var rectCmd = &cobra.Command{
	Use:   "rect [ID...]",
	Short: "Print bounding rectangles",
	Long:  `Print the bounding rectangle and target center of each country.`,
	RunE:  runRect,
}

var boundsCmd = &cobra.Command{
	Use:   "bounds [ID...]",
	Short: "Print latitude bounds",
	Long:  `Print how far north and south each country can be dragged, its area and its reward.`,
	RunE:  runBounds,
}

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Scatter countries over the map",
	Long:  `Place every country at a random position inside the configured viewport.`,
	RunE:  runPlace,
}

var queryCmd = &cobra.Command{
	Use:   "query LAT LNG",
	Short: "Find countries under a point",
	Long:  `Restore saved placements and list the countries whose current shape contains the point.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round automatically",
	Long:  `Play a round lap by lap, dropping every country on its target, and record the result.`,
	RunE:  runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default config.yaml, then config.yaml.example)")
	rootCmd.PersistentFlags().StringVarP(&geojsonFile, "file", "f", "", "GeoJSON file with country outlines")
	rootCmd.PersistentFlags().StringVar(&continent, "continent", "", "Continent to play on")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	placeCmd.Flags().BoolVarP(&savePlacements, "save", "s", false, "Save placements for the query command")
	playCmd.Flags().BoolVar(&showHistory, "history", false, "Print saved results after the round")

	rootCmd.AddCommand(rectCmd, boundsCmd, placeCmd, queryCmd, playCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, configFile, err = config.LoadFirst("config.yaml", "config.yaml.example")
	}
	if err != nil {
		return err
	}

	if geojsonFile != "" {
		cfg.Data.GeoJSON = geojsonFile
	}
	if continent != "" {
		cfg.Game.Continent = continent
	}
	if seed != 0 {
		cfg.Game.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := cfg.LogLevel()
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(os.Stderr),
	}).Level(level).With().Timestamp().Logger()

	if configFile != "" {
		logger.Debug().Str("config", configFile).Msg("Configuration loaded")
	}
	return nil
}

func newRand() *rand.Rand {
	s := cfg.Game.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	logger.Debug().Int64("seed", s).Msg("Random source")
	return rand.New(rand.NewSource(s))
}

func loadCountries(opts ...country.Option) ([]*country.Country, error) {
	solver := bounds.NewSolver(cfg.Map.MaxLatitude)
	loaderOpts := []loader.Option{
		loader.WithLogger(logger),
		loader.WithExclude(cfg.Data.Exclude...),
		loader.WithCountryOptions(append([]country.Option{country.WithSolver(solver)}, opts...)...),
	}
	if k := cfg.Continent(); k.Outline.Valid() {
		loaderOpts = append(loaderOpts, loader.WithContinents(k))
	}

	start := time.Now()
	countries, err := loader.ParseFile(cfg.Data.GeoJSON, loaderOpts...)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("countries", len(countries)).
		Dur("elapsed", time.Since(start)).
		Msg("Countries loaded")
	return countries, nil
}

func selectCountries(countries []*country.Country, ids []string) ([]*country.Country, error) {
	if len(ids) == 0 {
		return countries, nil
	}
	byID := make(map[string]*country.Country, len(countries))
	for _, c := range countries {
		byID[c.Key()] = c
	}
	selected := make([]*country.Country, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown country %q", id)
		}
		selected = append(selected, c)
	}
	return selected, nil
}

func newDisposition(rnd *rand.Rand) *disposition.Disposition {
	return disposition.New(cfg.Viewport(),
		disposition.WithRand(rnd),
		disposition.WithSolver(bounds.NewSolver(cfg.Map.MaxLatitude)),
		disposition.WithLogger(logger))
}

func runRect(cmd *cobra.Command, args []string) error {
	countries, err := loadCountries()
	if err != nil {
		return err
	}
	selected, err := selectCountries(countries, args)
	if err != nil {
		return err
	}

	printTitle("Bounding rectangles")
	for _, c := range selected {
		r := c.InitialRect()
		printSubtitle(c.String())
		printStat("Rect", r)
		printStat("Width", fmt.Sprintf("%.4f°", r.Width()))
		printStat("Height", fmt.Sprintf("%.4f°", r.Height()))
		printStat("Target", formatLatLng(c.TargetCenter()))
		if r.Left > r.Right {
			printInfo("Crosses the antimeridian")
		}
	}
	return nil
}

func runBounds(cmd *cobra.Command, args []string) error {
	countries, err := loadCountries()
	if err != nil {
		return err
	}
	selected, err := selectCountries(countries, args)
	if err != nil {
		return err
	}

	printTitle("Latitude bounds")
	for _, c := range selected {
		b := c.LatitudeBounds()
		printSubtitle(c.String())
		printStat("North", fmt.Sprintf("%.4f°", b.Max))
		printStat("South", fmt.Sprintf("%.4f°", b.Min))
		printStat("Area", fmt.Sprintf("%.0f km²", c.Area()/1e6))
		printStat("Coins", game.CoinsByArea(c.Area()))
		if b.Empty() {
			printWarning("No vertical room, the country stays at its midpoint")
		}
	}
	return nil
}

func runPlace(cmd *cobra.Command, args []string) error {
	countries, err := loadCountries()
	if err != nil {
		return err
	}

	d := newDisposition(newRand())
	start := time.Now()
	warnings := d.Apply(countries)
	elapsed := time.Since(start)

	printTitle("Placement")
	vp := d.Viewport()
	printStat("Viewport", fmt.Sprintf("%s - %s", formatLatLng(vp.Southwest), formatLatLng(vp.Northeast)))
	for _, c := range countries {
		printStat(c.String(), fmt.Sprintf("%s (%.0f km from target)", formatLatLng(c.CurrentCenter()), c.DistanceToTarget()/1000))
	}
	for _, w := range warnings {
		printWarning(w.String())
	}
	printSuccess(fmt.Sprintf("Placed %d countries in %v", len(countries), elapsed))

	if !savePlacements {
		return nil
	}
	index := rtree.NewIndex()
	index.Insert(countries...)
	if err := index.SaveToFile(cfg.Data.Placements); err != nil {
		return fmt.Errorf("failed to save placements: %w", err)
	}
	printSuccess(fmt.Sprintf("Placements saved to %s", cfg.Data.Placements))
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid longitude: %w", err)
	}

	index := rtree.NewIndex()
	countries, err := loadCountries(country.WithSink(index))
	if err != nil {
		return err
	}
	index.Insert(countries...)

	restored, err := index.LoadFromFile(cfg.Data.Placements)
	if err != nil {
		return fmt.Errorf("failed to load placements: %w", err)
	}
	logger.Debug().Int("restored", restored).Msg("Placements restored")

	p := models.LatLng{Lat: lat, Lng: lng}
	hits := index.QueryPoint(p)

	printTitle(fmt.Sprintf("Countries under %s", formatLatLng(p)))
	if len(hits) == 0 {
		printInfo("Nothing here")
		return nil
	}
	for _, c := range hits {
		printStat(c.String(), formatLatLng(c.CurrentCenter()))
		for _, other := range index.Overlapping(c) {
			printInfo(fmt.Sprintf("%s overlaps %s", c.Name, other.Name))
		}
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	countries, err := loadCountries()
	if err != nil {
		return err
	}
	if len(countries) == 0 {
		return fmt.Errorf("no countries to play with in %s", cfg.Data.GeoJSON)
	}

	rnd := newRand()
	round := game.NewRound(cfg.Continent(), countries,
		game.WithLapPortion(cfg.Game.LapPortion),
		game.WithRand(rnd),
		game.WithDisposition(newDisposition(rnd)),
		game.WithLogger(logger))

	name := cfg.Continent().Name
	if name == "" {
		name = "World"
	}
	printTitle(fmt.Sprintf("Round on %s", name))

	lapNumber := 0
	for {
		lap, warnings := round.NextLap()
		if len(lap) == 0 {
			break
		}
		lapNumber++
		printSubtitle(fmt.Sprintf("Lap %d", lapNumber))
		for _, w := range warnings {
			printWarning(w.String())
		}
		placed := 0
		for _, c := range lap {
			c.SetCurrentCenter(c.TargetCenter())
			if coins, ok := round.TryPlace(c); ok {
				printSuccess(fmt.Sprintf("%s +%d", c.Name, coins))
				placed++
			} else {
				printWarning(fmt.Sprintf("%s cannot reach its target", c.Name))
			}
		}
		// Targets beyond max_latitude can never be reached.
		if placed == 0 {
			printWarning("No country placed in this lap, stopping")
			break
		}
		printStat("Lap income", round.LapIncome())
		printProgress(round.Result().Progress, len(countries), "Progress")
	}

	result := round.Result()
	printStat("Coins", result.Coins)
	printStat("Countries", fmt.Sprintf("%d/%d", result.Progress, result.Total))
	printStat("Duration", result.Duration())

	if err := game.AppendResult(cfg.Data.Results, result); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	printSuccess(fmt.Sprintf("Result saved to %s", cfg.Data.Results))

	if !showHistory {
		return nil
	}
	results, err := game.LoadResults(cfg.Data.Results)
	if err != nil {
		return err
	}
	printSubtitle("History")
	for _, r := range results {
		printStat(r.Start.Format(time.DateTime), fmt.Sprintf("%s %d coins %d/%d", r.Continent, r.Coins, r.Progress, r.Total))
	}
	return nil
}
