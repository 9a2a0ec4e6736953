package results

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/ortbench/bench"
)

func sampleResult() bench.Result {
	return bench.Result{
		RunID: "test-run",
		Label: "go_baseline",
		Stats: bench.Stats{
			Count: 100, Mean: 15.234, StdDev: 1.567, CoeffVar: 10.29,
			FPS: 65.64, Min: 13.001, Max: 19.876,
			P50: 15.1, P90: 17.2, P99: 19.5,
		},
		StartRSS:  512.34,
		PeakRSS:   640.12,
		StableRSS: 600.56,
		GoHeap:    42.1,
		Samples:   []float64{15.2, 15.3, 15.1},
	}
}

func TestWriteResultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := sampleResult()

	require.NoError(t, WriteResult(dir, "Inference Benchmark", r))

	parsed, err := ParseResultFile(ResultPath(dir, r.Label))
	require.NoError(t, err)

	// Values survive the write at the file's formatting precision.
	assert.InDelta(t, r.Stats.Mean, parsed.AvgLatency, 0.001)
	assert.InDelta(t, r.Stats.StdDev, parsed.StdDev, 0.001)
	assert.InDelta(t, r.Stats.CoeffVar, parsed.CoeffVar, 0.01)
	assert.InDelta(t, r.Stats.FPS, parsed.FPS, 0.01)
	assert.InDelta(t, r.Stats.P50, parsed.P50, 0.001)
	assert.InDelta(t, r.Stats.P90, parsed.P90, 0.001)
	assert.InDelta(t, r.Stats.P99, parsed.P99, 0.001)
	assert.InDelta(t, r.StartRSS, parsed.StartRSS, 0.01)
	assert.InDelta(t, r.PeakRSS, parsed.PeakRSS, 0.01)
	assert.InDelta(t, r.StableRSS, parsed.StableRSS, 0.01)
	assert.InDelta(t, r.RSSDrift(), parsed.RSSDrift, 0.01)
	assert.InDelta(t, r.GoHeap, parsed.GoHeap, 0.01)
}

func TestWriteDetailedLog(t *testing.T) {
	dir := t.TempDir()
	r := sampleResult()
	rep := &bench.RepeatResult{Runs: []bench.Result{r, r}, Average: r}

	require.NoError(t, WriteDetailedLog(dir, rep))

	data, err := os.ReadFile(DetailedLogPath(dir, r.Label))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "===== Run 1 =====")
	assert.Contains(t, content, "===== Run 2 =====")
	assert.Contains(t, content, "===== Average of 2 runs =====")
	assert.Contains(t, content, "Run ID: test-run")
}

func TestWriteLatencySamplesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	samples := []float64{15.234, 14.001, 16.789}

	require.NoError(t, WriteLatencySamples(dir, "go_baseline", samples))

	got, err := ReadLatencySamples(LatencyDataPath(dir, "go_baseline"))
	require.NoError(t, err)
	require.Len(t, got, len(samples))
	for i := range samples {
		assert.InDelta(t, samples[i], got[i], 0.001)
	}
}

func TestWriteColdStartRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := &bench.ColdStartResult{
		ColdStart:    150.123,
		Stable:       bench.Stats{Count: 100, Mean: 15.2, StdDev: 1.1, P50: 15.0, P90: 16.8, P99: 18.2, Min: 13.0, Max: 19.0},
		Factor:       9.88,
		StartRSS:     100.5,
		ColdStartRSS: 420.2,
		StableRSS:    410.9,
	}

	require.NoError(t, WriteColdStart(dir, r))

	parsed, err := ParseColdStartFile(ResultPath(dir, "go_cold_start"))
	require.NoError(t, err)
	assert.InDelta(t, r.ColdStart, parsed.ColdStart, 0.001)
	assert.InDelta(t, r.Stable.Mean, parsed.Stable, 0.001)
	assert.InDelta(t, r.Factor, parsed.Factor, 0.01)
}

func TestWriteStability(t *testing.T) {
	dir := t.TempDir()
	r := &bench.StabilityResult{
		Duration:       1800e9,
		Inferences:     120000,
		Rate:           66.67,
		Latency:        bench.Stats{Count: 120000, Mean: 15.0, Min: 13.0, Max: 22.0, P50: 14.9, P90: 16.5, P99: 19.0},
		InitialRSS:     400.1,
		FinalRSS:       405.3,
		AvgRSS:         402.0,
		PeakRSS:        410.0,
		MinRSS:         399.5,
		Drift:          5.2,
		FluctuationPct: 2.61,
	}

	require.NoError(t, WriteStability(dir, r))

	data, err := os.ReadFile(ResultPath(dir, "go_long_stability"))
	require.NoError(t, err)
	content := string(data)

	v, ok := ExtractValue(content, LabelInferences)
	require.True(t, ok)
	assert.Equal(t, 120000.0, v)

	v, ok = ExtractValue(content, LabelRSSDrift)
	require.True(t, ok)
	assert.InDelta(t, 5.2, v, 0.01)

	v, ok = ExtractValue(content, LabelDuration)
	require.True(t, ok)
	assert.Equal(t, 1800.0, v)
}
