package bench

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/inferlab/ortbench/config"
	"github.com/inferlab/ortbench/input"
)

// InferenceSession is the runner's view of a model session: one
// synchronous inference at a time over pre-bound tensors.
type InferenceSession interface {
	Run() error
	Close() error
}

// SessionFactory builds a fresh InferenceSession for one run
// configuration. Repeated benchmarks rebuild the session each time so
// every repeat pays the full construction cost.
type SessionFactory func(cfg config.Run) (InferenceSession, error)

var (
	runtimeMu   sync.Mutex
	runtimeLive bool
)

// InitRuntime points the ONNX Runtime binding at the shared library and
// initializes the native environment. Required once per process before
// any session is opened.
func InitRuntime(libPath string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if runtimeLive {
		return nil
	}
	if _, err := os.Stat(libPath); err != nil {
		return errors.Wrapf(err, "onnxruntime shared library not found at %s", libPath)
	}

	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return errors.Wrap(err, "initializing ONNX Runtime environment")
	}
	runtimeLive = true
	return nil
}

// ShutdownRuntime destroys the native environment. Safe to call when
// the runtime was never initialized.
func ShutdownRuntime() {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if runtimeLive {
		_ = ort.DestroyEnvironment()
		runtimeLive = false
	}
}

// Session wraps an ONNX Runtime session with its pre-bound input and
// output tensors.
type Session struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// OpenSession constructs a session for one benchmark run with every
// tunable set explicitly; nothing is left to runtime defaults, because
// the two bindings under comparison must run the same configuration.
//
// The input tensor is filled from the shared binary data file before
// the session is created, so the first Run already sees the final
// input bytes. Any failure here is terminal for the run: the caller
// aborts without writing a result file.
func OpenSession(cfg config.Run) (InferenceSession, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "model file not found at %s", cfg.ModelPath)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "creating session options")
	}
	defer options.Destroy()

	if err := options.SetIntraOpNumThreads(cfg.IntraOpThreads); err != nil {
		return nil, errors.Wrap(err, "setting intra-op threads")
	}
	if err := options.SetInterOpNumThreads(cfg.InterOpThreads); err != nil {
		return nil, errors.Wrap(err, "setting inter-op threads")
	}
	// Error-level logging only; runtime log I/O inside the timed loop
	// would perturb the measurement.
	if err := options.SetLogSeverityLevel(3); err != nil {
		return nil, errors.Wrap(err, "setting log severity")
	}
	// Sequential execution keeps per-call timing deterministic.
	if err := options.SetExecutionMode(ort.ExecutionModeSequential); err != nil {
		return nil, errors.Wrap(err, "setting execution mode")
	}
	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return nil, errors.Wrap(err, "setting graph optimization level")
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(cfg.InputShape...))
	if err != nil {
		return nil, errors.Wrap(err, "creating input tensor")
	}
	if err := input.ReadInto(inputTensor.GetData(), cfg.InputDataPath); err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "loading input data")
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(cfg.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "creating output tensor")
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "creating ONNX Runtime session")
	}

	return &Session{
		session: session,
		input:   inputTensor,
		output:  outputTensor,
	}, nil
}

// Run executes one synchronous inference over the bound tensors.
func (s *Session) Run() error {
	if err := s.session.Run(); err != nil {
		return errors.Wrap(err, "inference failed")
	}
	return nil
}

// Close releases the native session and tensors.
func (s *Session) Close() error {
	var firstErr error
	if s.session != nil {
		if err := s.session.Destroy(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "destroying session")
		}
		s.session = nil
	}
	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.output != nil {
		s.output.Destroy()
		s.output = nil
	}
	return firstErr
}
