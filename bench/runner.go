package bench

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/inferlab/ortbench/config"
)

// Result is the write-once summary of one measured run: warmup, fixed
// timed iterations, inline RSS sampling. Memory fields are MB.
type Result struct {
	RunID          string
	Label          string
	IntraOpThreads int

	Stats Stats

	StartRSS  float64
	PeakRSS   float64
	StableRSS float64
	GoHeap    float64

	// Samples holds the raw per-call latencies in collection order, kept
	// for the latency distribution chart.
	Samples []float64
}

// RSSDrift is the stable minus start RSS reading, the leak proxy both
// bindings report.
func (r *Result) RSSDrift() float64 {
	return r.StableRSS - r.StartRSS
}

// Measure runs the measurement protocol against an already-open
// session:
//
//  1. start RSS reading (the session construction cost is already in it),
//  2. WarmupRuns discarded inferences,
//  3. Iterations timed inferences, sampling RSS every SampleStride calls
//     and tracking the running peak,
//  4. final stable RSS reading.
//
// Any inference error aborts the whole measurement; a partially
// completed sample set has no meaning.
func Measure(cfg config.Run, sess InferenceSession, mem MemorySource) (*Result, error) {
	if mem == nil {
		mem = ProcessRSS
	}

	startRSS := mem()

	for i := 0; i < cfg.WarmupRuns; i++ {
		if err := sess.Run(); err != nil {
			return nil, errors.Wrapf(err, "warmup run %d", i+1)
		}
	}

	samples := make([]float64, cfg.Iterations)
	peakRSS := startRSS

	for i := 0; i < cfg.Iterations; i++ {
		t0 := time.Now()
		if err := sess.Run(); err != nil {
			return nil, errors.Wrapf(err, "benchmark run %d", i+1)
		}
		samples[i] = time.Since(t0).Seconds() * 1000.0

		// Sampled inline, immediately after the call: the reading shares
		// the timing thread on purpose, the same bias the other binding
		// carries.
		if i%cfg.SampleStride == 0 {
			if rss := mem(); rss > peakRSS {
				peakRSS = rss
			}
		}
	}

	stableRSS := mem()
	if stableRSS > peakRSS {
		peakRSS = stableRSS
	}

	stats, err := Reduce(samples)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:          uuid.NewString(),
		Label:          cfg.Label,
		IntraOpThreads: cfg.IntraOpThreads,
		Stats:          stats,
		StartRSS:       startRSS,
		PeakRSS:        peakRSS,
		StableRSS:      stableRSS,
		GoHeap:         GoHeapMB(),
		Samples:        samples,
	}, nil
}

// RepeatResult aggregates the independent repeats of one configuration.
type RepeatResult struct {
	Runs    []Result
	Average Result
}

// Repeat builds a fresh session for each of cfg.Repeats independent
// measurements and averages them. Session construction or measurement
// failure on any repeat is fatal for the whole configuration; the
// aggregate would be meaningless with a repeat missing.
func Repeat(cfg config.Run, build SessionFactory, mem MemorySource) (*RepeatResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runs := make([]Result, 0, cfg.Repeats)
	for i := 0; i < cfg.Repeats; i++ {
		log.WithFields(log.Fields{"label": cfg.Label, "repeat": i + 1, "of": cfg.Repeats}).
			Info("starting measurement")

		sess, err := build(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "repeat %d: opening session", i+1)
		}

		res, err := Measure(cfg, sess, mem)
		closeErr := sess.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "repeat %d", i+1)
		}
		if closeErr != nil {
			log.WithError(closeErr).Warn("session close failed")
		}

		log.WithFields(log.Fields{
			"label":   cfg.Label,
			"repeat":  i + 1,
			"mean_ms": res.Stats.Mean,
		}).Info("measurement complete")

		runs = append(runs, *res)
	}

	return &RepeatResult{
		Runs:    runs,
		Average: Average(runs),
	}, nil
}

// Average folds per-repeat results into one averaged Result. Standard
// deviation and derived figures are recomputed over the repeat means,
// matching how the companion harness reports multi-run numbers.
func Average(runs []Result) Result {
	if len(runs) == 0 {
		return Result{}
	}

	n := float64(len(runs))
	avg := Result{
		RunID:          uuid.NewString(),
		Label:          runs[0].Label,
		IntraOpThreads: runs[0].IntraOpThreads,
	}
	avg.Stats.Count = runs[0].Stats.Count

	means := make([]float64, 0, len(runs))
	for _, r := range runs {
		avg.Stats.Mean += r.Stats.Mean
		avg.Stats.Min += r.Stats.Min
		avg.Stats.Max += r.Stats.Max
		avg.Stats.P50 += r.Stats.P50
		avg.Stats.P90 += r.Stats.P90
		avg.Stats.P99 += r.Stats.P99
		avg.StartRSS += r.StartRSS
		avg.PeakRSS += r.PeakRSS
		avg.StableRSS += r.StableRSS
		avg.GoHeap += r.GoHeap
		means = append(means, r.Stats.Mean)
	}

	avg.Stats.Mean /= n
	avg.Stats.Min /= n
	avg.Stats.Max /= n
	avg.Stats.P50 /= n
	avg.Stats.P90 /= n
	avg.Stats.P99 /= n
	avg.StartRSS /= n
	avg.PeakRSS /= n
	avg.StableRSS /= n
	avg.GoHeap /= n

	var sq float64
	for _, m := range means {
		d := m - avg.Stats.Mean
		sq += d * d
	}
	avg.Stats.StdDev = math.Sqrt(sq / n)
	if avg.Stats.Mean > 0 {
		avg.Stats.CoeffVar = avg.Stats.StdDev / avg.Stats.Mean * 100
		avg.Stats.FPS = 1000.0 / avg.Stats.Mean
	}

	// The raw sample dump kept for the box plot comes from the last
	// repeat, same as the original protocol.
	avg.Samples = runs[len(runs)-1].Samples

	return avg
}
