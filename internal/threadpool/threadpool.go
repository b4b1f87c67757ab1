// Package threadpool implements the thread-count clamping and channel
// capacity policy of spec.md §4.I.
package threadpool

import (
	"log"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// LogicalCores returns the number of logical cores available to this
// process, preferring cpuid's hardware-derived count (already part of
// the dependency graph via arrow/go/v18's vector-kernel dispatch) and
// falling back to runtime.NumCPU() if cpuid reports nothing usable (for
// instance under some emulators/sandboxes).
func LogicalCores() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Available implements min(requested, logical_cores), warning when a
// user-requested thread count is silently clamped (spec.md §4.F).
func Available(requested int) int {
	cores := LogicalCores()
	if requested <= 0 {
		return cores
	}
	if requested > cores {
		log.Printf("warning: requested %d threads exceeds %d logical cores, clamping", requested, cores)
		return cores
	}
	return requested
}

// Capacities returns the default bounded channel capacities for the
// ordered pipeline of spec.md §4.F: the work queue capacity is
// proportional to the worker count, and the ordered output channel
// capacity defaults to the same unless overridden by the caller.
func Capacities(workers int) (workQueue, orderedOut int) {
	if workers <= 0 {
		workers = 1
	}
	return workers * 2, workers * 2
}
