package bench

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/ortbench/config"
)

func TestOpenSessionMissingModel(t *testing.T) {
	cfg := config.DefaultRun()
	cfg.ModelPath = filepath.Join(t.TempDir(), "absent.onnx")

	_, err := OpenSession(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model file not found")
}

func TestInitRuntimeMissingLibrary(t *testing.T) {
	err := InitRuntime(filepath.Join(t.TempDir(), "libonnxruntime.so"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shared library not found")
}
