// Package system provides host-level helpers for the processing pipeline.
package system

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// Workers returns the number of logical CPUs to use for batch processing.
func Workers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// EnsureDir creates a directory (and parents) if it does not exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
