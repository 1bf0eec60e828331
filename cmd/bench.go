package main

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/kass/mercator-puzzle/pkg/country"
	"github.com/kass/mercator-puzzle/pkg/models"
	"github.com/kass/mercator-puzzle/pkg/rtree"
)

type BenchmarkResult struct {
	OpType        string
	TotalOps      int
	TotalDuration time.Duration
	AvgDuration   time.Duration
	OpsPerSec     float64
	MinDuration   time.Duration
	MaxDuration   time.Duration
	TotalResults  int64
	AvgResults    float64
}

var (
	benchType    string
	benchOps     int
	benchWorkers int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark drag moves and hit tests",
	Long:  `Run drag moves (vertex replay, clamping and re-indexing) and hit tests concurrently over the loaded countries.`,
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().StringVarP(&benchType, "type", "t", "mixed", "Operation type: hit, drag, mixed")
	benchCmd.Flags().IntVarP(&benchOps, "ops", "n", 10000, "Number of operations to run")
	benchCmd.Flags().IntVarP(&benchWorkers, "workers", "w", runtime.NumCPU(), "Number of concurrent workers")

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	index := rtree.NewIndex()
	countries, err := loadCountries(country.WithSink(index))
	if err != nil {
		return err
	}
	if len(countries) == 0 {
		return fmt.Errorf("no countries in %s", cfg.Data.GeoJSON)
	}
	index.Insert(countries...)
	newDisposition(newRand()).Apply(countries)

	vp := cfg.Viewport()
	var op func(r *rand.Rand) int
	switch benchType {
	case "hit":
		op = func(r *rand.Rand) int { return hitTest(index, vp, r) }
	case "drag":
		op = func(r *rand.Rand) int { return drag(countries, vp, r) }
	case "mixed":
		op = func(r *rand.Rand) int {
			if r.Intn(2) == 0 {
				return hitTest(index, vp, r)
			}
			return drag(countries, vp, r)
		}
	default:
		return fmt.Errorf("unknown operation type %q", benchType)
	}

	logger.Info().
		Int("ops", benchOps).
		Str("type", benchType).
		Int("workers", benchWorkers).
		Msg("Running benchmark")
	printBenchmark(benchmark(benchType, benchOps, benchWorkers, op))
	return nil
}

func randomPoint(vp models.Viewport, r *rand.Rand) models.LatLng {
	return models.LatLng{
		Lat: vp.Southwest.Lat + r.Float64()*(vp.Northeast.Lat-vp.Southwest.Lat),
		Lng: vp.Southwest.Lng + r.Float64()*vp.LongitudeSpan(),
	}
}

func hitTest(index *rtree.Index, vp models.Viewport, r *rand.Rand) int {
	return len(index.QueryPoint(randomPoint(vp, r)))
}

func drag(countries []*country.Country, vp models.Viewport, r *rand.Rand) int {
	c := countries[r.Intn(len(countries))]
	c.SetCurrentCenter(randomPoint(vp, r))
	return c.Vertices().VertexCount()
}

func benchmark(opType string, numOps, workers int, op func(r *rand.Rand) int) BenchmarkResult {
	if workers < 1 {
		workers = 1
	}

	var (
		totalResults int64
		minDuration  = time.Hour
		maxDuration  time.Duration
		totalDur     time.Duration
		mu           sync.Mutex
	)

	startTime := time.Now()

	// Worker pool
	opCh := make(chan int, numOps)
	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))

			for range opCh {
				opStart := time.Now()
				results := op(r)
				opDuration := time.Since(opStart)

				atomic.AddInt64(&totalResults, int64(results))

				mu.Lock()
				totalDur += opDuration
				minDuration = min(minDuration, opDuration)
				maxDuration = max(maxDuration, opDuration)
				mu.Unlock()
			}
		}(rand.Int63())
	}

	// Send operations
	for i := 0; i < numOps; i++ {
		opCh <- i
	}
	close(opCh)

	wg.Wait()
	totalDuration := time.Since(startTime)

	result := BenchmarkResult{
		OpType:        opType,
		TotalOps:      numOps,
		TotalDuration: totalDuration,
		MinDuration:   minDuration,
		MaxDuration:   maxDuration,
		TotalResults:  totalResults,
	}
	if numOps > 0 {
		result.AvgDuration = totalDur / time.Duration(numOps)
		result.OpsPerSec = float64(numOps) / totalDuration.Seconds()
		result.AvgResults = float64(totalResults) / float64(numOps)
	}
	return result
}

func printBenchmark(r BenchmarkResult) {
	printTitle(fmt.Sprintf("Benchmark: %s", r.OpType))
	printStat("Operations", r.TotalOps)
	printStat("Total time", r.TotalDuration)
	printStat("Ops per second", fmt.Sprintf("%.0f", r.OpsPerSec))
	printStat("Average", r.AvgDuration)
	printStat("Min", r.MinDuration)
	printStat("Max", r.MaxDuration)
	printStat("Average results", fmt.Sprintf("%.1f", r.AvgResults))
}
