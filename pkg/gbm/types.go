// Package gbm simulates Geometric Brownian Motion price paths over a
// fixed horizon, across interchangeable execution engines selected for
// the host hardware.
package gbm

import (
	"fmt"
	"time"
)

// EngineKind identifies a simulation execution strategy. Auto is a
// selection policy, not an executable engine: it resolves to one of the
// concrete kinds through the dispatcher.
type EngineKind int

const (
	Auto EngineKind = iota
	Scalar
	Multithreaded
	VectorizedMultithreaded
)

// String returns the canonical engine name.
func (k EngineKind) String() string {
	switch k {
	case Auto:
		return "AUTO"
	case Scalar:
		return "SCALAR"
	case Multithreaded:
		return "MT"
	case VectorizedMultithreaded:
		return "SIMD"
	default:
		return fmt.Sprintf("EngineKind(%d)", int(k))
	}
}

// ParseEngineKind converts an engine name to its kind. Unknown names
// resolve to Auto, matching the permissive behavior callers expect from
// configuration input.
func ParseEngineKind(name string) EngineKind {
	switch name {
	case "SCALAR", "scalar":
		return Scalar
	case "MT", "mt", "MULTITHREADED", "multithreaded":
		return Multithreaded
	case "SIMD", "simd", "VECTOR", "vector":
		return VectorizedMultithreaded
	default:
		return Auto
	}
}

// DefaultSampleSize is the number of paths retained for display when
// the request does not set its own cap.
const DefaultSampleSize = 100

// Request carries the parameters of one simulation. Drift, Variance and
// Volatility are already normalized to the step horizon; Volatility must
// equal sqrt(Variance) within floating tolerance.
type Request struct {
	StartingPrice float64
	Drift         float64
	Variance      float64
	Volatility    float64
	Steps         int
	Paths         int

	// Workers caps the worker count for the parallel engines.
	// Zero means use every hardware thread.
	Workers int

	// Seed makes per-worker random streams reproducible. Zero draws a
	// fresh seed per run.
	Seed uint64

	// SampleSize caps the number of full paths retained in the result.
	// Zero means DefaultSampleSize.
	SampleSize int
}

// sampleCount returns how many paths the engines record in full.
func (r Request) sampleCount() int {
	n := r.SampleSize
	if n <= 0 {
		n = DefaultSampleSize
	}
	if n > r.Paths {
		n = r.Paths
	}
	return n
}

// workerCount resolves the worker hint against the given hardware
// thread count.
func (r Request) workerCount(hardwareThreads int) int {
	n := r.Workers
	if n <= 0 {
		n = hardwareThreads
	}
	if n < 1 {
		n = 1
	}
	if n > r.Paths {
		n = r.Paths
	}
	return n
}

// Result is the outcome of one simulation. PathSample holds the first
// sampleCount paths in full, each Steps+1 prices beginning at the
// starting price. AvgTerminalPrice is the mean terminal price over ALL
// simulated paths, not just the retained sample. The caller owns the
// result; the engine keeps no reference.
type Result struct {
	PathSample       [][]float64
	AvgTerminalPrice float64
	Engine           EngineKind
	Elapsed          time.Duration
}
