package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	d, err := DigestFile(path)
	require.NoError(t, err)

	assert.False(t, d.Missing)
	assert.Equal(t, path, d.Path)
	// md5("hello world")
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", d.MD5)
	assert.InDelta(t, 11.0/1024/1024, d.SizeMB, 1e-9)
}

func TestDigestFileMissing(t *testing.T) {
	d, err := DigestFile(filepath.Join(t.TempDir(), "absent.onnx"))
	require.NoError(t, err, "a missing model is reported, not fatal")
	assert.True(t, d.Missing)
}

func TestDigestFiles(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "a.onnx")
	require.NoError(t, os.WriteFile(present, []byte("abc"), 0o644))
	absent := filepath.Join(dir, "b.onnx")

	digests, err := DigestFiles([]string{present, absent})
	require.NoError(t, err)
	require.Len(t, digests, 2)
	assert.False(t, digests[0].Missing)
	assert.True(t, digests[1].Missing)
}

func TestRender(t *testing.T) {
	digests := []FileDigest{
		{Path: "/models/a.onnx", MD5: "abc123", SizeMB: 109.5},
		{Path: "/models/b.onnx", Missing: true},
	}

	report := Render(digests)

	assert.Contains(t, report, "===== Model File Checksums =====")
	assert.Contains(t, report, "## a.onnx")
	assert.Contains(t, report, "MD5: abc123")
	assert.Contains(t, report, "Size: 109.50 MB")
	assert.Contains(t, report, "## b.onnx")
	assert.Contains(t, report, "Status: missing")
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, filepath.Join("results", "model_md5.txt"), ReportPath("results"))
}
