package bench

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/ortbench/config"
)

// mockSession stands in for a real runtime session so the measurement
// protocol can be exercised without the shared library.
type mockSession struct {
	runCalls    int
	closeCalls  int
	failAtCall  int // 0 disables
	sleepPerRun time.Duration
}

func (m *mockSession) Run() error {
	m.runCalls++
	if m.failAtCall > 0 && m.runCalls >= m.failAtCall {
		return errors.New("mock inference failure")
	}
	if m.sleepPerRun > 0 {
		time.Sleep(m.sleepPerRun)
	}
	return nil
}

func (m *mockSession) Close() error {
	m.closeCalls++
	return nil
}

// scriptedMemory returns the scripted readings in order, repeating the
// last one once exhausted.
func scriptedMemory(readings ...float64) MemorySource {
	i := 0
	return func() float64 {
		v := readings[i]
		if i < len(readings)-1 {
			i++
		}
		return v
	}
}

func testRun() config.Run {
	cfg := config.DefaultRun()
	cfg.WarmupRuns = 3
	cfg.Iterations = 20
	cfg.SampleStride = 5
	cfg.Repeats = 2
	return cfg
}

func TestMeasure(t *testing.T) {
	cfg := testRun()
	sess := &mockSession{}

	res, err := Measure(cfg, sess, scriptedMemory(100, 150, 140, 130, 120, 110))
	require.NoError(t, err)

	assert.Equal(t, cfg.WarmupRuns+cfg.Iterations, sess.runCalls)
	assert.Len(t, res.Samples, cfg.Iterations)
	assert.Equal(t, cfg.Iterations, res.Stats.Count)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, cfg.Label, res.Label)
	assert.Equal(t, cfg.IntraOpThreads, res.IntraOpThreads)

	assert.Equal(t, 100.0, res.StartRSS)
	assert.Equal(t, 150.0, res.PeakRSS)
	assert.GreaterOrEqual(t, res.PeakRSS, res.StartRSS)
	assert.GreaterOrEqual(t, res.PeakRSS, res.StableRSS)
}

func TestMeasurePeakIncludesStableReading(t *testing.T) {
	cfg := testRun()
	// The last reading is the highest, so the stable reading must become
	// the peak.
	res, err := Measure(cfg, &mockSession{}, scriptedMemory(100, 110, 200))
	require.NoError(t, err)

	assert.Equal(t, 200.0, res.StableRSS)
	assert.Equal(t, 200.0, res.PeakRSS)
}

func TestMeasureAbortsOnFailure(t *testing.T) {
	cfg := testRun()
	sess := &mockSession{failAtCall: cfg.WarmupRuns + 5}

	_, err := Measure(cfg, sess, scriptedMemory(100))
	assert.Error(t, err)
}

func TestRSSDrift(t *testing.T) {
	r := &Result{StartRSS: 100, StableRSS: 112.5}
	assert.InDelta(t, 12.5, r.RSSDrift(), 1e-9)
}

func TestRepeat(t *testing.T) {
	cfg := testRun()

	var sessions []*mockSession
	build := func(config.Run) (InferenceSession, error) {
		s := &mockSession{}
		sessions = append(sessions, s)
		return s, nil
	}

	rep, err := Repeat(cfg, build, scriptedMemory(100))
	require.NoError(t, err)

	assert.Len(t, rep.Runs, cfg.Repeats)
	assert.Len(t, sessions, cfg.Repeats, "each repeat builds a fresh session")
	for _, s := range sessions {
		assert.Equal(t, 1, s.closeCalls)
	}
	assert.Equal(t, cfg.Label, rep.Average.Label)
	assert.Len(t, rep.Average.Samples, cfg.Iterations)
}

func TestRepeatRejectsInvalidConfig(t *testing.T) {
	cfg := testRun()
	cfg.Iterations = 0

	_, err := Repeat(cfg, func(config.Run) (InferenceSession, error) {
		return &mockSession{}, nil
	}, scriptedMemory(100))
	assert.Error(t, err)
}

func TestRepeatPropagatesBuildFailure(t *testing.T) {
	cfg := testRun()
	_, err := Repeat(cfg, func(config.Run) (InferenceSession, error) {
		return nil, errors.New("no runtime")
	}, scriptedMemory(100))
	assert.Error(t, err)
}

func TestAverage(t *testing.T) {
	runs := []Result{
		{
			Label: "go_baseline",
			Stats: Stats{Count: 100, Mean: 10, Min: 8, Max: 14, P50: 10, P90: 12, P99: 13},
			StartRSS: 100, PeakRSS: 130, StableRSS: 120, GoHeap: 5,
			Samples: []float64{10, 10},
		},
		{
			Label: "go_baseline",
			Stats: Stats{Count: 100, Mean: 12, Min: 9, Max: 16, P50: 12, P90: 14, P99: 15},
			StartRSS: 102, PeakRSS: 134, StableRSS: 124, GoHeap: 7,
			Samples: []float64{12, 12},
		},
	}

	avg := Average(runs)

	assert.InDelta(t, 11.0, avg.Stats.Mean, 1e-9)
	assert.InDelta(t, 11.0, avg.Stats.P50, 1e-9)
	assert.InDelta(t, 101.0, avg.StartRSS, 1e-9)
	assert.InDelta(t, 122.0, avg.StableRSS, 1e-9)
	assert.InDelta(t, 6.0, avg.GoHeap, 1e-9)
	// Std dev over the repeat means {10, 12}.
	assert.InDelta(t, 1.0, avg.Stats.StdDev, 1e-9)
	assert.InDelta(t, 1000.0/11.0, avg.Stats.FPS, 1e-9)
	// The sample dump comes from the last repeat.
	assert.Equal(t, []float64{12, 12}, avg.Samples)
}

func TestAverageEmpty(t *testing.T) {
	avg := Average(nil)
	assert.Equal(t, Result{}, avg)
}

func TestMeasureColdStart(t *testing.T) {
	cfg := testRun()
	sess := &mockSession{}

	res, err := MeasureColdStart(cfg, sess, scriptedMemory(100, 140, 125))
	require.NoError(t, err)

	// The cold call replaces the first warmup run.
	assert.Equal(t, cfg.WarmupRuns+cfg.Iterations, sess.runCalls)
	assert.GreaterOrEqual(t, res.ColdStart, 0.0)
	assert.Equal(t, cfg.Iterations, res.Stable.Count)
	assert.Equal(t, 100.0, res.StartRSS)
	assert.Equal(t, 140.0, res.ColdStartRSS)
	assert.Equal(t, 125.0, res.StableRSS)
	if res.Stable.Mean > 0 {
		assert.InDelta(t, res.ColdStart/res.Stable.Mean, res.Factor, 1e-9)
	}
}

func TestMeasureStability(t *testing.T) {
	cfg := testRun()
	cfg.SampleStride = 3
	sess := &mockSession{sleepPerRun: time.Millisecond}

	res, err := MeasureStability(cfg, 60*time.Millisecond, 0, sess, scriptedMemory(100, 105, 103))
	require.NoError(t, err)

	assert.Greater(t, res.Inferences, 0)
	assert.Greater(t, res.Rate, 0.0)
	assert.Equal(t, res.Inferences, res.Latency.Count)
	assert.GreaterOrEqual(t, res.Duration, 60*time.Millisecond)

	// First and last curve points bracket the run.
	require.GreaterOrEqual(t, len(res.Curve), 2)
	assert.Equal(t, 0.0, res.Curve[0].Elapsed)
	last := res.Curve[len(res.Curve)-1]
	assert.InDelta(t, res.Duration.Seconds(), last.Elapsed, 0.05)

	assert.Equal(t, 100.0, res.InitialRSS)
	assert.InDelta(t, res.FinalRSS-res.InitialRSS, res.Drift, 1e-9)
	assert.GreaterOrEqual(t, res.PeakRSS, res.MinRSS)
}

func TestMeasureStabilityRejectsZeroDuration(t *testing.T) {
	_, err := MeasureStability(testRun(), 0, 0, &mockSession{}, scriptedMemory(100))
	assert.Error(t, err)
}
