package bench

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Stats is the read-only reduction of one latency sample set. All
// latency fields are milliseconds.
type Stats struct {
	Count    int
	Mean     float64
	StdDev   float64
	CoeffVar float64 // percent
	FPS      float64
	Min      float64
	Max      float64
	P50      float64
	P90      float64
	P99      float64
}

// Reduce computes summary statistics over a latency sample set.
//
// Percentiles use the nearest-rank rule: the samples are sorted
// ascending and the percentile q is the element at index
// int(float64(n)*q), clamped to the last element. This matches the
// companion Python harness exactly; results are compared bit for bit
// across bindings, so interpolating quantile estimators are ruled out.
func Reduce(samples []float64) (Stats, error) {
	n := len(samples)
	if n == 0 {
		return Stats{}, errors.New("bench: empty sample set")
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	mean := stat.Mean(sorted, nil)
	// Population std dev, not sample: the N timed calls are the whole
	// population being reported, not a draw from one.
	sd := stat.PopStdDev(sorted, nil)

	s := Stats{
		Count:  n,
		Mean:   mean,
		StdDev: sd,
		Min:    sorted[0],
		Max:    sorted[n-1],
		P50:    nearestRank(sorted, 0.5),
		P90:    nearestRank(sorted, 0.9),
		P99:    nearestRank(sorted, 0.99),
	}
	if mean > 0 {
		s.CoeffVar = sd / mean * 100
		s.FPS = 1000.0 / mean
	}
	return s, nil
}

func nearestRank(sorted []float64, q float64) float64 {
	idx := int(float64(len(sorted)) * q)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Tracker keeps a running min/max/sum over a stream of readings without
// retaining them, used for RSS tracking inside the timing loop.
type Tracker struct {
	count int
	sum   float64
	min   float64
	max   float64
}

// Observe folds one reading into the tracker.
func (t *Tracker) Observe(v float64) {
	if t.count == 0 {
		t.min, t.max = v, v
	}
	if v < t.min {
		t.min = v
	}
	if v > t.max {
		t.max = v
	}
	t.sum += v
	t.count++
}

// Count returns the number of observed readings.
func (t *Tracker) Count() int { return t.count }

// Min returns the smallest observed reading, 0 before any observation.
func (t *Tracker) Min() float64 { return t.min }

// Max returns the largest observed reading, 0 before any observation.
func (t *Tracker) Max() float64 { return t.max }

// Mean returns the average observed reading, 0 before any observation.
func (t *Tracker) Mean() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
