package gbm

import (
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// seedStride separates per-worker seeds derived from one request seed.
// Golden-ratio increment, the same constant splitmix64 uses.
const seedStride = 0x9E3779B97F4A7C15

var seedCounter uint64

// workerSeed derives worker i's stream seed. With a request seed the
// derivation is deterministic, so each worker's draws are reproducible
// across runs even though cross-worker interleaving is not. Without one,
// every call gets a fresh seed.
func workerSeed(requestSeed uint64, worker int) uint64 {
	if requestSeed != 0 {
		return requestSeed + uint64(worker)*seedStride
	}
	n := atomic.AddUint64(&seedCounter, 1)
	return uint64(time.Now().UnixNano()) ^ (n * seedStride) ^ (uint64(worker) * seedStride)
}

// normStream returns an independent standard-normal source for one
// worker.
func normStream(requestSeed uint64, worker int) distuv.Normal {
	return distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewSource(workerSeed(requestSeed, worker)),
	}
}

// kahanAdd accumulates v into sum with a compensation term, keeping the
// terminal-price reduction stable at millions of paths.
func kahanAdd(sum, comp *float64, v float64) {
	y := v - *comp
	t := *sum + y
	*comp = (t - *sum) - y
	*sum = t
}
