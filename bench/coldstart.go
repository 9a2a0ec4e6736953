package bench

import (
	"math"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/inferlab/ortbench/config"
)

// ColdStartResult compares the first inference after session creation
// with the stable regime reached after warmup.
type ColdStartResult struct {
	// ColdStart is the latency of the very first inference, which
	// includes the runtime's one-time allocation and kernel selection
	// costs.
	ColdStart float64
	// Stable summarizes the timed iterations after warmup.
	Stable Stats
	// Factor is ColdStart divided by the stable mean.
	Factor float64

	StartRSS     float64
	ColdStartRSS float64
	StableRSS    float64
}

// MeasureColdStart times the first inference of a fresh session, then
// runs the remaining warmup and the regular timed loop to establish the
// stable baseline it is compared against.
func MeasureColdStart(cfg config.Run, sess InferenceSession, mem MemorySource) (*ColdStartResult, error) {
	if mem == nil {
		mem = ProcessRSS
	}

	startRSS := mem()

	t0 := time.Now()
	if err := sess.Run(); err != nil {
		return nil, errors.Wrap(err, "cold start run")
	}
	cold := time.Since(t0).Seconds() * 1000.0
	coldRSS := mem()

	// The cold call counts as the first warmup iteration.
	for i := 1; i < cfg.WarmupRuns; i++ {
		if err := sess.Run(); err != nil {
			return nil, errors.Wrapf(err, "warmup run %d", i+1)
		}
	}

	samples := make([]float64, cfg.Iterations)
	for i := 0; i < cfg.Iterations; i++ {
		t := time.Now()
		if err := sess.Run(); err != nil {
			return nil, errors.Wrapf(err, "benchmark run %d", i+1)
		}
		samples[i] = time.Since(t).Seconds() * 1000.0
	}

	stableRSS := mem()

	stats, err := Reduce(samples)
	if err != nil {
		return nil, err
	}

	res := &ColdStartResult{
		ColdStart:    cold,
		Stable:       stats,
		StartRSS:     startRSS,
		ColdStartRSS: coldRSS,
		StableRSS:    stableRSS,
	}
	if stats.Mean > 0 {
		res.Factor = cold / stats.Mean
	}
	return res, nil
}

// RepeatColdStart averages the given number of independent cold start
// rounds, each with a freshly built session so every round pays the
// full first-inference cost. A single cold start sample is noise;
// the reported number is always a multi-round average. Any round
// failing is fatal for the whole measurement.
func RepeatColdStart(cfg config.Run, rounds int, build SessionFactory, mem MemorySource) (*ColdStartResult, error) {
	if rounds <= 0 {
		return nil, errors.Errorf("bench: cold start rounds must be positive, got %d", rounds)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]*ColdStartResult, 0, rounds)
	for i := 0; i < rounds; i++ {
		log.WithFields(log.Fields{"round": i + 1, "of": rounds}).Info("starting cold start round")

		sess, err := build(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "round %d: opening session", i+1)
		}

		res, err := MeasureColdStart(cfg, sess, mem)
		closeErr := sess.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "round %d", i+1)
		}
		if closeErr != nil {
			log.WithError(closeErr).Warn("session close failed")
		}

		log.WithFields(log.Fields{
			"round":     i + 1,
			"cold_ms":   res.ColdStart,
			"stable_ms": res.Stable.Mean,
		}).Info("cold start round complete")

		results = append(results, res)
	}

	return averageColdStarts(results), nil
}

// averageColdStarts folds per-round results field by field. Standard
// deviation and derived figures are recomputed over the per-round
// stable means, and the factor from the averaged values.
func averageColdStarts(rounds []*ColdStartResult) *ColdStartResult {
	n := float64(len(rounds))
	avg := &ColdStartResult{}
	avg.Stable.Count = rounds[0].Stable.Count

	means := make([]float64, 0, len(rounds))
	for _, r := range rounds {
		avg.ColdStart += r.ColdStart
		avg.Stable.Mean += r.Stable.Mean
		avg.Stable.Min += r.Stable.Min
		avg.Stable.Max += r.Stable.Max
		avg.Stable.P50 += r.Stable.P50
		avg.Stable.P90 += r.Stable.P90
		avg.Stable.P99 += r.Stable.P99
		avg.StartRSS += r.StartRSS
		avg.ColdStartRSS += r.ColdStartRSS
		avg.StableRSS += r.StableRSS
		means = append(means, r.Stable.Mean)
	}

	avg.ColdStart /= n
	avg.Stable.Mean /= n
	avg.Stable.Min /= n
	avg.Stable.Max /= n
	avg.Stable.P50 /= n
	avg.Stable.P90 /= n
	avg.Stable.P99 /= n
	avg.StartRSS /= n
	avg.ColdStartRSS /= n
	avg.StableRSS /= n

	var sq float64
	for _, m := range means {
		d := m - avg.Stable.Mean
		sq += d * d
	}
	avg.Stable.StdDev = math.Sqrt(sq / n)
	if avg.Stable.Mean > 0 {
		avg.Stable.CoeffVar = avg.Stable.StdDev / avg.Stable.Mean * 100
		avg.Stable.FPS = 1000.0 / avg.Stable.Mean
		avg.Factor = avg.ColdStart / avg.Stable.Mean
	}
	return avg
}
