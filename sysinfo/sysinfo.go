// Package sysinfo - Environment probe for benchmark reproducibility.
//
// A benchmark number without a record of the machine that produced it
// cannot be compared with anything, so every campaign starts by writing
// this report next to the results.
package sysinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Info is a snapshot of the facts both bindings record before a
// benchmark campaign. Probe failures degrade individual fields to
// "unknown"; probing never aborts.
type Info struct {
	OS            string
	Kernel        string
	Arch          string
	CPUModel      string
	LogicalCores  int
	TotalMemoryGB float64
	GoVersion     string
	RuntimeLib    string
	RuntimeFound  bool
	CollectedAt   time.Time
}

// Collect gathers the environment snapshot. runtimeLibPath may be empty
// when the probe runs on a machine without the native runtime.
func Collect(runtimeLibPath string) Info {
	info := Info{
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		LogicalCores: runtime.NumCPU(),
		GoVersion:    runtime.Version(),
		RuntimeLib:   runtimeLibPath,
		CollectedAt:  time.Now(),
	}
	probePlatform(&info)

	if runtimeLibPath != "" {
		if _, err := os.Stat(runtimeLibPath); err == nil {
			info.RuntimeFound = true
		}
	}
	return info
}

// Render formats the snapshot as the report's key-value lines.
func (i Info) Render() string {
	var b strings.Builder
	b.WriteString("===== Environment Check =====\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", i.CollectedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "OS: %s\n", orUnknown(i.OS))
	fmt.Fprintf(&b, "Kernel: %s\n", orUnknown(i.Kernel))
	fmt.Fprintf(&b, "Architecture: %s\n", orUnknown(i.Arch))
	fmt.Fprintf(&b, "CPU Model: %s\n", orUnknown(i.CPUModel))
	fmt.Fprintf(&b, "Logical Cores: %d\n", i.LogicalCores)
	if i.TotalMemoryGB > 0 {
		fmt.Fprintf(&b, "Total Memory: %.2f GB\n", i.TotalMemoryGB)
	} else {
		b.WriteString("Total Memory: unknown\n")
	}
	fmt.Fprintf(&b, "Go Version: %s\n", orUnknown(i.GoVersion))
	if i.RuntimeLib != "" {
		status := "missing"
		if i.RuntimeFound {
			status = "present"
		}
		fmt.Fprintf(&b, "ONNX Runtime Library: %s (%s)\n", i.RuntimeLib, status)
	}
	return b.String()
}

// ReportPath is the environment report location inside a results
// directory.
func ReportPath(dir string) string {
	return filepath.Join(dir, "env_check_result.txt")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
