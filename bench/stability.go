package bench

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/inferlab/ortbench/config"
)

// CurvePoint is one timestamped RSS reading of a long stability run.
type CurvePoint struct {
	Timestamp time.Time
	Elapsed   float64 // seconds since the run started
	RSSMB     float64
}

// StabilityResult summarizes a duration-bound continuous-inference run.
type StabilityResult struct {
	Duration   time.Duration
	Inferences int
	Rate       float64 // inferences per second

	Latency Stats

	InitialRSS float64
	FinalRSS   float64
	AvgRSS     float64
	PeakRSS    float64
	MinRSS     float64
	// Drift is final minus initial RSS, the leak indicator.
	Drift float64
	// FluctuationPct is (peak-min)/avg in percent.
	FluctuationPct float64

	Curve []CurvePoint
}

// MeasureStability runs continuous inference for the given duration
// after warmup, recording a timestamped RSS curve every SampleStride
// inferences and progress every progressEvery inferences (0 disables
// progress logging).
func MeasureStability(
	cfg config.Run,
	duration time.Duration,
	progressEvery int,
	sess InferenceSession,
	mem MemorySource,
) (*StabilityResult, error) {
	if duration <= 0 {
		return nil, errors.New("bench: stability duration must be positive")
	}
	if mem == nil {
		mem = ProcessRSS
	}

	for i := 0; i < cfg.WarmupRuns; i++ {
		if err := sess.Run(); err != nil {
			return nil, errors.Wrapf(err, "warmup run %d", i+1)
		}
	}

	start := time.Now()
	end := start.Add(duration)

	initial := mem()
	var rss Tracker
	rss.Observe(initial)

	curve := []CurvePoint{{Timestamp: start, Elapsed: 0, RSSMB: initial}}
	var samples []float64
	count := 0

	for time.Now().Before(end) {
		t0 := time.Now()
		if err := sess.Run(); err != nil {
			return nil, errors.Wrapf(err, "inference %d", count+1)
		}
		samples = append(samples, time.Since(t0).Seconds()*1000.0)
		count++

		if count%cfg.SampleStride == 0 {
			now := time.Now()
			v := mem()
			rss.Observe(v)
			curve = append(curve, CurvePoint{
				Timestamp: now,
				Elapsed:   now.Sub(start).Seconds(),
				RSSMB:     v,
			})
		}

		if progressEvery > 0 && count%progressEvery == 0 {
			log.WithFields(log.Fields{
				"inferences": count,
				"elapsed":    time.Since(start).Round(time.Second).String(),
				"remaining":  time.Until(end).Round(time.Second).String(),
			}).Info("stability progress")
		}
	}

	now := time.Now()
	final := mem()
	rss.Observe(final)
	curve = append(curve, CurvePoint{
		Timestamp: now,
		Elapsed:   now.Sub(start).Seconds(),
		RSSMB:     final,
	})

	elapsed := time.Since(start)

	stats, err := Reduce(samples)
	if err != nil {
		return nil, errors.Wrap(err, "no inferences completed within the stability window")
	}

	res := &StabilityResult{
		Duration:   elapsed,
		Inferences: count,
		Rate:       float64(count) / elapsed.Seconds(),
		Latency:    stats,
		InitialRSS: initial,
		FinalRSS:   final,
		AvgRSS:     rss.Mean(),
		PeakRSS:    rss.Max(),
		MinRSS:     rss.Min(),
		Drift:      final - initial,
		Curve:      curve,
	}
	if res.AvgRSS > 0 {
		res.FluctuationPct = (res.PeakRSS - res.MinRSS) / res.AvgRSS * 100
	}
	return res, nil
}
