// Package cpu probes the host hardware once per process and reports the
// capabilities the simulation engines care about: wide SIMD support and
// hardware parallelism.
package cpu

import (
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Record describes the host capabilities relevant to engine selection.
// It is computed once, never mutated, and shared by all callers for the
// process lifetime.
type Record struct {
	HasAVX2        bool // 256-bit packed double support
	HasAVX512      bool // 512-bit foundation support
	Threads        int  // logical hardware threads, at least 1
	CacheLineBytes int  // L1 data cache line size, 64 if unknown
}

// WideSIMD reports whether the host can run the vectorized engine at
// full width.
func (r Record) WideSIMD() bool {
	return r.HasAVX2 || r.HasAVX512
}

var (
	detectOnce sync.Once
	detected   Record

	overrideMu sync.RWMutex
	override   *Record
)

// Detect returns the capability record for the host. Detection runs on
// the first call and is safe against concurrent first access; every
// later call returns the cached record.
func Detect() Record {
	overrideMu.RLock()
	forced := override
	overrideMu.RUnlock()
	if forced != nil {
		return *forced
	}

	detectOnce.Do(func() {
		detected = probe()
	})
	return detected
}

// probe inspects the CPU. It never fails: unsupported platforms degrade
// to a record with no SIMD support and a single thread.
func probe() Record {
	rec := Record{
		Threads:        runtime.NumCPU(),
		CacheLineBytes: 64,
	}
	if rec.Threads < 1 {
		rec.Threads = 1
	}

	switch runtime.GOARCH {
	case "amd64", "386":
		rec.HasAVX2 = cpuid.CPU.Supports(cpuid.AVX2)
		rec.HasAVX512 = cpuid.CPU.Supports(cpuid.AVX512F)
	case "arm64":
		// NEON is architectural on arm64 and wide enough for the
		// 8-lane batch kernel.
		rec.HasAVX2 = true
	}

	if cl := cpuid.CPU.CacheLine; cl > 0 {
		rec.CacheLineBytes = cl
	}
	return rec
}

// SetOverride replaces the detected record for the current process,
// passing nil restores hardware detection. Intended for tests that need
// a deterministic capability record.
func SetOverride(rec *Record) {
	overrideMu.Lock()
	defer overrideMu.Unlock()
	if rec == nil {
		override = nil
		return
	}
	cp := *rec
	override = &cp
}
