package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go_baseline_result.txt")
	content := "Average Latency: 15.234 ms\n"

	require.NoError(t, WriteTextFile(path, content))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestWriteTextFileBadPath(t *testing.T) {
	err := WriteTextFile(filepath.Join(t.TempDir(), "no", "such", "dir", "x.txt"), "data")
	assert.Error(t, err)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results", "nested")
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent.
	assert.NoError(t, EnsureDir(dir))
}
