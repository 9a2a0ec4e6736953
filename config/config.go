// Package config - Run configuration for the benchmark harness.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults shared by every benchmark scenario. The values mirror the
// measurement protocol used by the companion Python harness so that the
// recorded sample counts and cadences stay comparable.
const (
	DefaultSeed         = 12345
	DefaultWarmupRuns   = 10
	DefaultIterations   = 100
	DefaultSampleStride = 10
	DefaultRepeats      = 5
	// DefaultColdStartRounds is the number of independent sessions whose
	// first-inference latencies are averaged into one cold start figure.
	DefaultColdStartRounds = 3
)

// DefaultThreadCounts is the intra-op thread sweep used by the thread
// scaling benchmark.
var DefaultThreadCounts = []int{1, 2, 4, 8}

// Run holds every tunable of a single benchmark run. A Run is built once
// before the run starts and never mutated afterwards; the runner only
// reads from it.
type Run struct {
	// ModelPath is the ONNX model file under test.
	ModelPath string `json:"modelPath"    yaml:"modelPath"    mapstructure:"modelPath"`
	// LibraryPath points at the onnxruntime shared library.
	LibraryPath string `json:"libraryPath"  yaml:"libraryPath"  mapstructure:"libraryPath"`
	// InputName and OutputName are the model's graph node names.
	InputName  string `json:"inputName"    yaml:"inputName"    mapstructure:"inputName"`
	OutputName string `json:"outputName"   yaml:"outputName"   mapstructure:"outputName"`
	// InputShape and OutputShape are NCHW-style tensor dimensions.
	InputShape  []int64 `json:"inputShape"   yaml:"inputShape"   mapstructure:"inputShape"`
	OutputShape []int64 `json:"outputShape"  yaml:"outputShape"  mapstructure:"outputShape"`
	// InputDataPath is the shared flat binary float32 file both language
	// bindings read, so every run sees identical input bytes.
	InputDataPath string `json:"inputDataPath" yaml:"inputDataPath" mapstructure:"inputDataPath"`

	// IntraOpThreads and InterOpThreads are the runtime's parallelism
	// settings. The harness itself stays single threaded.
	IntraOpThreads int `json:"intraOpThreads" yaml:"intraOpThreads" mapstructure:"intraOpThreads"`
	InterOpThreads int `json:"interOpThreads" yaml:"interOpThreads" mapstructure:"interOpThreads"`

	// WarmupRuns inferences are executed and discarded before timing.
	WarmupRuns int `json:"warmupRuns" yaml:"warmupRuns" mapstructure:"warmupRuns"`
	// Iterations is the timed inference count; the latency sample set
	// always has exactly this length.
	Iterations int `json:"iterations" yaml:"iterations" mapstructure:"iterations"`
	// SampleStride controls the inline RSS sampling cadence: one reading
	// every SampleStride inferences.
	SampleStride int `json:"sampleStride" yaml:"sampleStride" mapstructure:"sampleStride"`
	// Repeats is the number of independent session builds averaged into
	// the reported result.
	Repeats int `json:"repeats" yaml:"repeats" mapstructure:"repeats"`

	// ResultsDir receives every artifact the run writes.
	ResultsDir string `json:"resultsDir" yaml:"resultsDir" mapstructure:"resultsDir"`
	// Label prefixes the run's result file names, e.g. "go_baseline".
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// DefaultRun returns the baseline configuration: YOLO11x at 1x3x640x640
// with four intra-op threads, the protocol both bindings agreed on.
func DefaultRun() Run {
	return Run{
		ModelPath:      filepath.Join("third_party", "yolo11x.onnx"),
		LibraryPath:    filepath.Join("third_party", "libonnxruntime.so"),
		InputName:      "images",
		OutputName:     "output0",
		InputShape:     []int64{1, 3, 640, 640},
		OutputShape:    []int64{1, 84, 8400},
		InputDataPath:  filepath.Join("data", "input_data.bin"),
		IntraOpThreads: 4,
		InterOpThreads: 1,
		WarmupRuns:     DefaultWarmupRuns,
		Iterations:     DefaultIterations,
		SampleStride:   DefaultSampleStride,
		Repeats:        DefaultRepeats,
		ResultsDir:     "results",
		Label:          "go_baseline",
	}
}

// Validate reports the first configuration error, if any. A Run that
// fails validation must never reach the runner.
func (r Run) Validate() error {
	if r.ModelPath == "" {
		return errors.New("config: model path is required")
	}
	if r.InputName == "" || r.OutputName == "" {
		return errors.New("config: input and output node names are required")
	}
	if len(r.InputShape) != 4 {
		return errors.Errorf("config: input shape must have 4 dimensions, got %d", len(r.InputShape))
	}
	if len(r.OutputShape) == 0 {
		return errors.New("config: output shape is required")
	}
	if r.WarmupRuns < 0 {
		return errors.Errorf("config: warmup runs must be non-negative, got %d", r.WarmupRuns)
	}
	if r.Iterations <= 0 {
		return errors.Errorf("config: iterations must be positive, got %d", r.Iterations)
	}
	if r.SampleStride <= 0 {
		return errors.Errorf("config: sample stride must be positive, got %d", r.SampleStride)
	}
	if r.Repeats <= 0 {
		return errors.Errorf("config: repeats must be positive, got %d", r.Repeats)
	}
	if r.IntraOpThreads < 0 || r.InterOpThreads < 0 {
		return errors.New("config: thread counts must be non-negative")
	}
	return nil
}

// ElementCount returns the number of float32 elements in the input
// tensor.
func (r Run) ElementCount() int {
	n := int64(1)
	for _, d := range r.InputShape {
		n *= d
	}
	return int(n)
}

// WithThreads returns a copy of the Run with the intra-op thread count
// replaced and the label suffixed accordingly. The receiver is not
// modified.
func (r Run) WithThreads(intra int) Run {
	out := r
	out.IntraOpThreads = intra
	out.Label = fmt.Sprintf("go_thread_%d", intra)
	return out
}

// Scenario is one named entry of a scenario set: a label plus the
// fields it overrides on top of the baseline Run.
type Scenario struct {
	Name           string `yaml:"name"`
	Label          string `yaml:"label"`
	IntraOpThreads int    `yaml:"intraOpThreads"`
	InterOpThreads int    `yaml:"interOpThreads"`
	WarmupRuns     int    `yaml:"warmupRuns"`
	Iterations     int    `yaml:"iterations"`
	Repeats        int    `yaml:"repeats"`
}

// ScenarioSet is a YAML-described collection of benchmark scenarios run
// back to back with a shared baseline.
type ScenarioSet struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Scenarios   []Scenario `yaml:"scenarios"`
}

// LoadScenarioSet reads a scenario set from a YAML file.
func LoadScenarioSet(path string) (*ScenarioSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading scenario set")
	}

	var set ScenarioSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, errors.Wrapf(err, "parsing scenario set %s", path)
	}
	if len(set.Scenarios) == 0 {
		return nil, errors.Errorf("scenario set %s contains no scenarios", path)
	}
	return &set, nil
}

// Apply merges a scenario's overrides onto a baseline Run. Zero values
// leave the baseline untouched so scenario files only state what they
// change.
func (s Scenario) Apply(base Run) Run {
	out := base
	if s.Label != "" {
		out.Label = s.Label
	}
	if s.IntraOpThreads > 0 {
		out.IntraOpThreads = s.IntraOpThreads
	}
	if s.InterOpThreads > 0 {
		out.InterOpThreads = s.InterOpThreads
	}
	if s.WarmupRuns > 0 {
		out.WarmupRuns = s.WarmupRuns
	}
	if s.Iterations > 0 {
		out.Iterations = s.Iterations
	}
	if s.Repeats > 0 {
		out.Repeats = s.Repeats
	}
	return out
}
