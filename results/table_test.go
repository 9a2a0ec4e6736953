package results

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/ortbench/bench"
)

func sampleSweep() []bench.ThreadResult {
	mk := func(threads int, mean float64) bench.ThreadResult {
		return bench.ThreadResult{
			Threads: threads,
			Aggregate: bench.Result{
				Label: "go_baseline",
				Stats: bench.Stats{
					Mean: mean, StdDev: 0.5, FPS: 1000 / mean,
					P50: mean, P90: mean + 1, P99: mean + 2,
				},
				StartRSS:  500,
				StableRSS: 520,
			},
		}
	}
	return []bench.ThreadResult{mk(1, 40.0), mk(2, 22.5), mk(4, 15.25), mk(8, 14.125)}
}

func TestWriteComprehensiveTable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteComprehensiveTable(dir, sampleSweep()))

	data, err := os.ReadFile(ComprehensiveTablePath(dir))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "===== Thread Configuration Comparison =====")
	assert.Contains(t, content, "Threads")
	assert.Contains(t, content, "40.000")
	assert.Contains(t, content, "14.125")

	csvData, err := os.ReadFile(ComprehensiveCSVPath(dir))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, lines, 5, "header plus one row per thread count")
	assert.Equal(t, "Threads,Avg_Latency_ms,Std_Dev_ms,FPS,P50_ms,P90_ms,P99_ms,Start_RSS_MB,Stable_RSS_MB", lines[0])
}

func TestComprehensiveCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sweep := sampleSweep()
	require.NoError(t, WriteComprehensiveTable(dir, sweep))

	rows, err := ReadComprehensiveCSV(ComprehensiveCSVPath(dir))
	require.NoError(t, err)
	require.Len(t, rows, len(sweep))

	for i, row := range rows {
		assert.Equal(t, sweep[i].Threads, row.Threads)
		assert.InDelta(t, sweep[i].Aggregate.Stats.Mean, float64(row.AvgMs), 0.001)
		assert.InDelta(t, sweep[i].Aggregate.Stats.FPS, float64(row.FPS), 0.01)
		assert.InDelta(t, sweep[i].Aggregate.StableRSS, float64(row.StableRSS), 0.01)
	}
}

func TestReadComprehensiveCSVMissing(t *testing.T) {
	_, err := ReadComprehensiveCSV(ComprehensiveCSVPath(t.TempDir()))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
