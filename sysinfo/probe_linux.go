//go:build linux

package sysinfo

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

func probePlatform(info *Info) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		info.OS = unix.ByteSliceToString(uts.Sysname[:])
		info.Kernel = unix.ByteSliceToString(uts.Release[:])
	}

	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil {
		info.TotalMemoryGB = float64(si.Totalram) * float64(si.Unit) / (1 << 30)
	}

	info.CPUModel = cpuModelFromProc()
}

func cpuModelFromProc() string {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "model name") {
			if _, value, ok := strings.Cut(line, ":"); ok {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}
