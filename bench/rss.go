package bench

import (
	"os"
	"runtime"
	"strconv"
	"strings"
)

// MemorySource returns the current resident set size in MB. The runner
// takes it as a parameter so tests can substitute a deterministic
// source.
type MemorySource func() float64

// ProcessRSS reads the process resident set size in MB from
// /proc/self/status. On platforms without procfs, or on any parse
// failure, it returns 0: a missing memory reading must never abort a
// latency run.
func ProcessRSS() float64 {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "VmRSS:") {
			continue
		}
		// Format: "VmRSS:    12345 kB"
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0
		}
		return kb / 1024.0
	}
	return 0
}

// GoHeapMB returns the Go heap in MB. It is an auxiliary metric only;
// the native runtime's allocations dominate RSS.
func GoHeapMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / 1024 / 1024
}
