package bench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce(t *testing.T) {
	samples := []float64{10, 12, 11, 13, 9}

	s, err := Reduce(samples)
	require.NoError(t, err)

	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 11.0, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(2.0), s.StdDev, 1e-9)
	assert.InDelta(t, 9.0, s.Min, 1e-9)
	assert.InDelta(t, 13.0, s.Max, 1e-9)
	// Nearest rank on sorted [9 10 11 12 13]: index 2, 4, 4.
	assert.InDelta(t, 11.0, s.P50, 1e-9)
	assert.InDelta(t, 13.0, s.P90, 1e-9)
	assert.InDelta(t, 13.0, s.P99, 1e-9)
	assert.InDelta(t, 1000.0/11.0, s.FPS, 1e-9)
	assert.InDelta(t, math.Sqrt(2.0)/11.0*100, s.CoeffVar, 1e-9)
}

func TestReduceSingleSample(t *testing.T) {
	s, err := Reduce([]float64{42.5})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 42.5, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 42.5, s.P50)
	assert.Equal(t, 42.5, s.P99)
}

func TestReduceEmpty(t *testing.T) {
	_, err := Reduce(nil)
	assert.Error(t, err)
}

func TestReduceDoesNotReorderInput(t *testing.T) {
	samples := []float64{3, 1, 2}
	_, err := Reduce(samples)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, samples)
}

func TestReducePercentilesMonotonic(t *testing.T) {
	samples := make([]float64, 100)
	rng := uint64(7)
	for i := range samples {
		rng = rng*1103515245 + 12345
		samples[i] = float64(rng%1000) / 10.0
	}

	s, err := Reduce(samples)
	require.NoError(t, err)

	assert.LessOrEqual(t, s.Min, s.P50)
	assert.LessOrEqual(t, s.P50, s.P90)
	assert.LessOrEqual(t, s.P90, s.P99)
	assert.LessOrEqual(t, s.P99, s.Max)
}

func TestTracker(t *testing.T) {
	var tr Tracker

	assert.Equal(t, 0, tr.Count())
	assert.Equal(t, 0.0, tr.Mean())

	tr.Observe(5)
	tr.Observe(3)
	tr.Observe(10)

	assert.Equal(t, 3, tr.Count())
	assert.Equal(t, 3.0, tr.Min())
	assert.Equal(t, 10.0, tr.Max())
	assert.InDelta(t, 6.0, tr.Mean(), 1e-9)
}
