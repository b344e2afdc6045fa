package gbm

import (
	"math"
	"sync"

	"github.com/quantframe/gbmsim/pkg/cpu"
)

func init() {
	registerEngine(threadedEngine{})
}

// threadedEngine partitions the path range into contiguous chunks, one
// per worker goroutine. Each worker runs the scalar algorithm over its
// chunk with an independently seeded random stream and a local terminal
// sum; the only synchronization point is the join barrier before the
// final reduction on the calling goroutine.
type threadedEngine struct{}

func (threadedEngine) Kind() EngineKind { return Multithreaded }

func (threadedEngine) Run(req Request) (*Result, error) {
	partial, diffusion := stepConstants(req)

	sampleCount := req.sampleCount()
	sample, err := allocSample(sampleCount, req.Steps)
	if err != nil {
		return nil, err
	}

	workers := req.workerCount(cpu.Detect().Threads)
	chunk := req.Paths / workers
	extra := req.Paths % workers

	// Per-worker terminal sums, reduced after the join. Workers write
	// disjoint sample rows and disjoint sum slots, so the hot path
	// takes no locks.
	sums := make([]float64, workers)

	var wg sync.WaitGroup
	lo := 0
	for w := 0; w < workers; w++ {
		n := chunk
		if w < extra {
			n++
		}
		hi := lo + n

		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			norm := normStream(req.Seed, w)

			var sum, comp float64
			for i := lo; i < hi; i++ {
				price := req.StartingPrice
				recorded := i < sampleCount
				if recorded {
					sample[i][0] = price
				}
				for j := 1; j <= req.Steps; j++ {
					price *= math.Exp(partial + diffusion*norm.Rand())
					if recorded {
						sample[i][j] = price
					}
				}
				kahanAdd(&sum, &comp, price)
			}
			sums[w] = sum
		}(w, lo, hi)

		lo = hi
	}
	wg.Wait()

	var total, comp float64
	for _, s := range sums {
		kahanAdd(&total, &comp, s)
	}

	return &Result{
		PathSample:       sample,
		AvgTerminalPrice: total / float64(req.Paths),
		Engine:           Multithreaded,
	}, nil
}
