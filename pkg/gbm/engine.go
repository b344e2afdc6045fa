package gbm

import (
	"math"
	"sort"
	"sync/atomic"
)

// engine is a concrete execution strategy. Engines assume a validated
// request; validation belongs to the dispatcher.
type engine interface {
	Kind() EngineKind
	Run(req Request) (*Result, error)
}

// engines holds the strategies compiled into this build. Registration
// happens in per-engine init functions, so availability is decided at
// build time, mirroring build-tag engine selection.
var engines = map[EngineKind]engine{}

func registerEngine(e engine) {
	engines[e.Kind()] = e
}

// Available reports whether a concrete engine kind is compiled into
// this build. Auto is a policy, never "available" as an engine.
func Available(kind EngineKind) bool {
	_, ok := engines[kind]
	return ok
}

// ListEngines returns Auto followed by the concrete engines compiled
// into this build, in the fixed order Scalar, Multithreaded,
// VectorizedMultithreaded.
func ListEngines() []EngineKind {
	kinds := make([]EngineKind, 0, len(engines)+1)
	kinds = append(kinds, Auto)
	for k := range engines {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// defaultMemoryBudget bounds the bytes allocated for retained path
// storage. 1 GiB holds far more sample paths than any display cap
// needs; hitting it means a caller asked for something unreasonable.
const defaultMemoryBudget = 1 << 30

var memoryBudget uint64 = defaultMemoryBudget

// SetMemoryBudget replaces the path-storage budget and returns the
// previous value. A zero budget restores the default.
func SetMemoryBudget(bytes uint64) uint64 {
	if bytes == 0 {
		bytes = defaultMemoryBudget
	}
	return atomic.SwapUint64(&memoryBudget, bytes)
}

// allocSample reserves the retained-path matrix, failing with
// ResourceExhaustedError when the request would blow the budget or the
// size arithmetic overflows.
func allocSample(samplePaths, steps int) ([][]float64, error) {
	budget := atomic.LoadUint64(&memoryBudget)
	rows := uint64(samplePaths)
	cols := uint64(steps) + 1

	const wordSize = 8
	if cols != 0 && rows > ^uint64(0)/cols {
		return nil, &ResourceExhaustedError{Requested: ^uint64(0), Budget: budget}
	}
	cells := rows * cols
	if cells > ^uint64(0)/wordSize {
		return nil, &ResourceExhaustedError{Requested: ^uint64(0), Budget: budget}
	}
	bytes := cells * wordSize
	if bytes > budget {
		return nil, &ResourceExhaustedError{Requested: bytes, Budget: budget}
	}

	sample := make([][]float64, samplePaths)
	for i := range sample {
		sample[i] = make([]float64, steps+1)
	}
	return sample, nil
}

// stepConstants precomputes the per-step update terms shared by every
// engine: drift term, diffusion scale and sqrt of the time increment.
func stepConstants(req Request) (partial, diffusion float64) {
	dt := 1.0 / float64(req.Steps)
	partial = (req.Drift - 0.5*req.Variance) * dt
	diffusion = req.Volatility * math.Sqrt(dt)
	return partial, diffusion
}
