// Package checksum - Model file integrity report.
//
// Both bindings must benchmark byte-identical model files; the MD5
// report written here is how a reviewer verifies that after the fact.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// FileDigest is the integrity record of one model file.
type FileDigest struct {
	Path   string
	MD5    string
	SizeMB float64
	// Missing is set when the file does not exist; an absent model is
	// reported, not fatal, because the report covers optional models
	// too.
	Missing bool
}

// DigestFile computes the chunked MD5 of one file.
func DigestFile(path string) (FileDigest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileDigest{Path: path, Missing: true}, nil
		}
		return FileDigest{}, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return FileDigest{}, errors.Wrapf(err, "hashing %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		return FileDigest{}, errors.Wrapf(err, "stat %s", path)
	}

	return FileDigest{
		Path:   path,
		MD5:    hex.EncodeToString(h.Sum(nil)),
		SizeMB: float64(info.Size()) / 1024 / 1024,
	}, nil
}

// DigestFiles digests each path in order.
func DigestFiles(paths []string) ([]FileDigest, error) {
	digests := make([]FileDigest, 0, len(paths))
	for _, p := range paths {
		d, err := DigestFile(p)
		if err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}
	return digests, nil
}

// Render formats the digests as the report file content.
func Render(digests []FileDigest) string {
	var b strings.Builder
	b.WriteString("===== Model File Checksums =====\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	for _, d := range digests {
		fmt.Fprintf(&b, "\n## %s\n", filepath.Base(d.Path))
		fmt.Fprintf(&b, "Path: %s\n", d.Path)
		if d.Missing {
			b.WriteString("Status: missing\n")
			continue
		}
		fmt.Fprintf(&b, "MD5: %s\n", d.MD5)
		fmt.Fprintf(&b, "Size: %.2f MB\n", d.SizeMB)
	}
	return b.String()
}

// ReportPath is the checksum report location inside a results
// directory.
func ReportPath(dir string) string {
	return filepath.Join(dir, "model_md5.txt")
}
