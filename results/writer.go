// Package results - Persistence and read-back of benchmark artifacts.
//
// Result text files are key-value lines of the form "<label>: <value>
// <unit>" with fixed decimal places. The chart generator re-extracts
// the values by pattern search, so the label strings and formats here
// are a wire format: changing either breaks every downstream consumer.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/inferlab/ortbench/bench"
)

// Result file labels. The parser matches these verbatim.
const (
	LabelAvgLatency = "Average Latency"
	LabelStdDev     = "Std Dev"
	LabelCoeffVar   = "Coeff Var"
	LabelFPS        = "FPS"
	LabelP50        = "P50 Latency"
	LabelP90        = "P90 Latency"
	LabelP99        = "P99 Latency"
	LabelMinLatency = "Min Latency"
	LabelMaxLatency = "Max Latency"
	LabelStartRSS   = "Start RSS"
	LabelPeakRSS    = "Peak RSS"
	LabelStableRSS  = "Stable RSS"
	LabelRSSDrift   = "RSS Drift"
	LabelGoHeap     = "Go Heap"

	LabelColdStart       = "Cold Start Latency"
	LabelStableLatency   = "Stable Latency"
	LabelColdStartFactor = "Cold Start Factor"
	LabelColdStartRSS    = "Cold Start RSS"

	LabelDuration    = "Test Duration"
	LabelInferences  = "Inference Count"
	LabelRate        = "Inference Rate"
	LabelInitialRSS  = "Initial RSS"
	LabelFinalRSS    = "Final RSS"
	LabelAvgRSS      = "Average RSS"
	LabelMinRSS      = "Min RSS"
	LabelFluctuation = "RSS Fluctuation"
)

// ResultPath returns the summary file path for a run label.
func ResultPath(dir, label string) string {
	return filepath.Join(dir, label+"_result.txt")
}

// DetailedLogPath returns the per-repeat log file path for a run label.
func DetailedLogPath(dir, label string) string {
	return filepath.Join(dir, label+"_detailed_log.txt")
}

// LatencyDataPath returns the raw latency dump path for a run label.
func LatencyDataPath(dir, label string) string {
	return filepath.Join(dir, label+"_latency_data.txt")
}

// EnsureDir creates the results directory if needed.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating results directory %s", dir)
	}
	return nil
}

func writeStats(b *strings.Builder, s bench.Stats) {
	fmt.Fprintf(b, "%s: %.3f ms\n", LabelAvgLatency, s.Mean)
	fmt.Fprintf(b, "%s: %.3f ms\n", LabelStdDev, s.StdDev)
	fmt.Fprintf(b, "%s: %.2f%%\n", LabelCoeffVar, s.CoeffVar)
	fmt.Fprintf(b, "%s: %.2f\n", LabelFPS, s.FPS)
	fmt.Fprintf(b, "%s: %.3f ms\n", LabelP50, s.P50)
	fmt.Fprintf(b, "%s: %.3f ms\n", LabelP90, s.P90)
	fmt.Fprintf(b, "%s: %.3f ms\n", LabelP99, s.P99)
	fmt.Fprintf(b, "%s: %.3f ms\n", LabelMinLatency, s.Min)
	fmt.Fprintf(b, "%s: %.3f ms\n", LabelMaxLatency, s.Max)
}

func writeMemory(b *strings.Builder, r bench.Result) {
	fmt.Fprintf(b, "%s: %.2f MB\n", LabelStartRSS, r.StartRSS)
	fmt.Fprintf(b, "%s: %.2f MB\n", LabelPeakRSS, r.PeakRSS)
	fmt.Fprintf(b, "%s: %.2f MB\n", LabelStableRSS, r.StableRSS)
	fmt.Fprintf(b, "%s: %.2f MB\n", LabelRSSDrift, r.RSSDrift())
	fmt.Fprintf(b, "%s: %.2f MB\n", LabelGoHeap, r.GoHeap)
}

// WriteResult writes the averaged summary file for one configuration.
func WriteResult(dir string, title string, r bench.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "===== %s =====\n", title)
	writeStats(&b, r.Stats)
	b.WriteString("\n===== Memory Usage =====\n")
	writeMemory(&b, r)
	return WriteTextFile(ResultPath(dir, r.Label), b.String())
}

// WriteDetailedLog writes the per-repeat breakdown plus the averaged
// section for one configuration.
func WriteDetailedLog(dir string, rep *bench.RepeatResult) error {
	var b strings.Builder
	for i, r := range rep.Runs {
		fmt.Fprintf(&b, "===== Run %d =====\n", i+1)
		fmt.Fprintf(&b, "Run ID: %s\n", r.RunID)
		writeStats(&b, r.Stats)
		writeMemory(&b, r)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "===== Average of %d runs =====\n", len(rep.Runs))
	writeStats(&b, rep.Average.Stats)
	writeMemory(&b, rep.Average)
	return WriteTextFile(DetailedLogPath(dir, rep.Average.Label), b.String())
}

// WriteLatencySamples dumps the raw per-call latencies, one "%.3f" per
// line, for the latency distribution box plot.
func WriteLatencySamples(dir, label string, samples []float64) error {
	var b strings.Builder
	for _, v := range samples {
		fmt.Fprintf(&b, "%.3f\n", v)
	}
	return WriteTextFile(LatencyDataPath(dir, label), b.String())
}

// WriteColdStart writes the cold start comparison result file.
func WriteColdStart(dir string, r *bench.ColdStartResult) error {
	var b strings.Builder
	b.WriteString("===== Cold Start Benchmark =====\n")
	fmt.Fprintf(&b, "%s: %.3f ms\n", LabelColdStart, r.ColdStart)
	fmt.Fprintf(&b, "%s: %.3f ms\n", LabelStableLatency, r.Stable.Mean)
	fmt.Fprintf(&b, "%s: %.2f\n", LabelColdStartFactor, r.Factor)
	b.WriteString("\n===== Stable State =====\n")
	writeStats(&b, r.Stable)
	b.WriteString("\n===== Memory Usage =====\n")
	fmt.Fprintf(&b, "%s: %.2f MB\n", LabelStartRSS, r.StartRSS)
	fmt.Fprintf(&b, "%s: %.2f MB\n", LabelColdStartRSS, r.ColdStartRSS)
	fmt.Fprintf(&b, "%s: %.2f MB\n", LabelStableRSS, r.StableRSS)
	return WriteTextFile(ResultPath(dir, "go_cold_start"), b.String())
}

// WriteStability writes the long stability result file.
func WriteStability(dir string, r *bench.StabilityResult) error {
	var b strings.Builder
	b.WriteString("===== Long Stability Benchmark =====\n")
	fmt.Fprintf(&b, "%s: %.0f s\n", LabelDuration, r.Duration.Seconds())
	fmt.Fprintf(&b, "%s: %d\n", LabelInferences, r.Inferences)
	fmt.Fprintf(&b, "%s: %.2f /s\n", LabelRate, r.Rate)
	b.WriteString("\n===== Inference Latency =====\n")
	writeStats(&b, r.Latency)
	b.WriteString("\n===== Memory Usage =====\n")
	fmt.Fprintf(&b, "%s: %.2f MB\n", LabelInitialRSS, r.InitialRSS)
	fmt.Fprintf(&b, "%s: %.2f MB\n", LabelFinalRSS, r.FinalRSS)
	fmt.Fprintf(&b, "%s: %.2f MB\n", LabelAvgRSS, r.AvgRSS)
	fmt.Fprintf(&b, "%s: %.2f MB\n", LabelPeakRSS, r.PeakRSS)
	fmt.Fprintf(&b, "%s: %.2f MB\n", LabelMinRSS, r.MinRSS)
	fmt.Fprintf(&b, "%s: %.2f MB\n", LabelRSSDrift, r.Drift)
	fmt.Fprintf(&b, "%s: %.2f MB (%.2f%%)\n", LabelFluctuation, r.PeakRSS-r.MinRSS, r.FluctuationPct)
	return WriteTextFile(ResultPath(dir, "go_long_stability"), b.String())
}
