//go:build !linux

package sysinfo

// Non-Linux platforms keep the portable runtime facts and leave the
// kernel, CPU model and memory fields at their unknown defaults.
func probePlatform(info *Info) {}
