// Package input - Deterministic input tensor generation and the shared
// binary interchange file read by every language binding under test.
package input

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Rand is the linear congruential generator both language bindings
// implement so that inline-generated tensors match bit for bit. It is
// not a general purpose RNG.
type Rand struct {
	seed uint64
}

// NewRand returns a generator positioned at the given seed.
func NewRand(seed uint64) *Rand {
	return &Rand{seed: seed}
}

// Float32 returns the next value in [0, 1).
func (r *Rand) Float32() float32 {
	r.seed = r.seed*1103515245 + 12345
	return float32((r.seed/65536)%32768) / 32768.0
}

// Generate fills a dense float32 tensor of the given shape from the
// fixed-seed generator. Identical seed and shape always produce
// identical bytes.
func Generate(seed uint64, shape ...int) (*tensor.Dense, error) {
	if len(shape) == 0 {
		return nil, errors.New("input: empty tensor shape")
	}
	t := tensor.New(tensor.WithShape(shape...), tensor.Of(tensor.Float32))

	data, ok := t.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("input: unexpected backing type %T", t.Data())
	}

	rng := NewRand(seed)
	for i := range data {
		data[i] = rng.Float32()
	}
	return t, nil
}

// WriteFile persists the tensor as a flat little-endian float32 file,
// the exact byte layout the Python binding writes with numpy's tofile.
func WriteFile(t *tensor.Dense, path string) error {
	data, ok := t.Data().([]float32)
	if !ok {
		return errors.Errorf("input: unexpected backing type %T", t.Data())
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating input data directory")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating input data file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var buf [4]byte
	for _, v := range data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		if _, err := w.Write(buf[:]); err != nil {
			return errors.Wrap(err, "writing input data")
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "flushing input data")
	}
	return nil
}

// ReadInto loads a flat little-endian float32 file into dst, which must
// already have the run's element count. A short or missing file is an
// error: a benchmark must never run on partial input.
func ReadInto(dst []float32, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening input data file %s", path)
	}
	defer f.Close()

	buf := make([]byte, len(dst)*4)
	if _, err := io.ReadFull(f, buf); err != nil {
		return errors.Wrapf(err, "reading %d floats from %s", len(dst), path)
	}

	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	return nil
}

// Summary describes a generated tensor the way the generation script
// reports it, for eyeballing cross-language agreement.
type Summary struct {
	Elements int
	SizeMB   float64
	Min      float32
	Max      float32
	Mean     float64
}

// Summarize reduces a tensor to its summary statistics.
func Summarize(t *tensor.Dense) (Summary, error) {
	data, ok := t.Data().([]float32)
	if !ok {
		return Summary{}, errors.Errorf("input: unexpected backing type %T", t.Data())
	}
	if len(data) == 0 {
		return Summary{}, errors.New("input: empty tensor")
	}

	min, max := data[0], data[0]
	var sum float64
	for _, v := range data {
		min = math32.Min(min, v)
		max = math32.Max(max, v)
		sum += float64(v)
	}

	return Summary{
		Elements: len(data),
		SizeMB:   float64(len(data)*4) / 1024 / 1024,
		Min:      min,
		Max:      max,
		Mean:     sum / float64(len(data)),
	}, nil
}
