package sysinfo

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	info := Collect("")

	// uname reports "Linux" where GOOS says "linux".
	assert.Equal(t, runtime.GOOS, strings.ToLower(info.OS))
	assert.Equal(t, runtime.GOARCH, info.Arch)
	assert.Greater(t, info.LogicalCores, 0)
	assert.NotEmpty(t, info.GoVersion)
	assert.False(t, info.RuntimeFound)
	assert.False(t, info.CollectedAt.IsZero())

	if runtime.GOOS == "linux" {
		assert.NotEmpty(t, info.Kernel)
		assert.Greater(t, info.TotalMemoryGB, 0.0)
	}
}

func TestCollectRuntimeLibrary(t *testing.T) {
	lib := filepath.Join(t.TempDir(), "libonnxruntime.so")
	require.NoError(t, os.WriteFile(lib, []byte{0x7f, 'E', 'L', 'F'}, 0o755))

	found := Collect(lib)
	assert.True(t, found.RuntimeFound)

	missing := Collect(filepath.Join(t.TempDir(), "nope.so"))
	assert.False(t, missing.RuntimeFound)
}

func TestRender(t *testing.T) {
	info := Collect("")
	report := info.Render()

	assert.Contains(t, report, "===== Environment Check =====")
	assert.Contains(t, report, "OS: "+info.OS)
	assert.Contains(t, report, "Go Version: "+runtime.Version())
	assert.Contains(t, report, "Logical Cores:")
	// No library configured means no library line.
	assert.NotContains(t, report, "ONNX Runtime Library")
}

func TestRenderUnknownFields(t *testing.T) {
	info := Info{LogicalCores: 4}
	report := info.Render()

	assert.Contains(t, report, "CPU Model: unknown")
	assert.Contains(t, report, "Total Memory: unknown")
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, filepath.Join("results", "env_check_result.txt"), ReportPath("results"))
}
