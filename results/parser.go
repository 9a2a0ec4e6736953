package results

import (
	"os"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// ExtractValue pattern-searches content for "<label>: <number>" and
// returns the number. This is the same extraction the chart scripts
// have always used, so it tolerates any surrounding text and ignores
// units.
func ExtractValue(content, label string) (float64, bool) {
	re := regexp.MustCompile(regexp.QuoteMeta(label) + `: (-?[0-9.]+)`)
	m := re.FindStringSubmatch(content)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsedResult is the read-back view of a summary result file. Fields
// missing from the file stay zero; a file without the average latency
// line, the one field every result file carries, fails to parse.
type ParsedResult struct {
	AvgLatency float64
	StdDev     float64
	CoeffVar   float64
	FPS        float64
	P50        float64
	P90        float64
	P99        float64
	MinLatency float64
	MaxLatency float64
	StartRSS   float64
	PeakRSS    float64
	StableRSS  float64
	RSSDrift   float64
	GoHeap     float64
}

// ParseResultFile reads a summary result file back into numbers.
// A missing file surfaces as an error satisfying os.IsNotExist, which
// chart callers treat as "skip this chart".
func ParseResultFile(path string) (*ParsedResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(data)

	p := &ParsedResult{}
	avg, ok := ExtractValue(content, LabelAvgLatency)
	if !ok {
		return nil, errors.Errorf("result file %s has no %q line", path, LabelAvgLatency)
	}
	p.AvgLatency = avg

	p.StdDev, _ = ExtractValue(content, LabelStdDev)
	p.CoeffVar, _ = ExtractValue(content, LabelCoeffVar)
	p.FPS, _ = ExtractValue(content, LabelFPS)
	p.P50, _ = ExtractValue(content, LabelP50)
	p.P90, _ = ExtractValue(content, LabelP90)
	p.P99, _ = ExtractValue(content, LabelP99)
	p.MinLatency, _ = ExtractValue(content, LabelMinLatency)
	p.MaxLatency, _ = ExtractValue(content, LabelMaxLatency)
	p.StartRSS, _ = ExtractValue(content, LabelStartRSS)
	p.PeakRSS, _ = ExtractValue(content, LabelPeakRSS)
	p.StableRSS, _ = ExtractValue(content, LabelStableRSS)
	p.RSSDrift, _ = ExtractValue(content, LabelRSSDrift)
	p.GoHeap, _ = ExtractValue(content, LabelGoHeap)
	return p, nil
}

// ParsedColdStart is the read-back view of a cold start result file.
type ParsedColdStart struct {
	ColdStart float64
	Stable    float64
	Factor    float64
}

// ParseColdStartFile reads the cold start comparison back.
func ParseColdStartFile(path string) (*ParsedColdStart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(data)

	cold, ok := ExtractValue(content, LabelColdStart)
	if !ok {
		return nil, errors.Errorf("result file %s has no %q line", path, LabelColdStart)
	}
	stable, _ := ExtractValue(content, LabelStableLatency)
	factor, _ := ExtractValue(content, LabelColdStartFactor)
	return &ParsedColdStart{ColdStart: cold, Stable: stable, Factor: factor}, nil
}

// ReadLatencySamples reads a raw latency dump back, one float per line.
func ReadLatencySamples(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var samples []float64
	for _, m := range latencyLine.FindAllStringSubmatch(string(data), -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		samples = append(samples, v)
	}
	if len(samples) == 0 {
		return nil, errors.Errorf("latency dump %s contains no samples", path)
	}
	return samples, nil
}

var latencyLine = regexp.MustCompile(`(?m)^(-?[0-9.]+)\s*$`)
