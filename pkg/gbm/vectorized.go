//go:build !novec

package gbm

import (
	"math"
	"sync"

	"github.com/quantframe/gbmsim/pkg/cpu"
)

func init() {
	registerEngine(vecThreadedEngine{})
}

// batchWidth is the number of paths a worker advances together per
// step: two 256-bit lanes of doubles, wide enough for the compiler to
// keep the unrolled update in vector registers.
const batchWidth = 8

// vecThreadedEngine uses the threaded engine's partitioning, but inside
// a worker the paths advance in batches of batchWidth: the per-step
// update accumulates log returns for the whole batch with an unrolled
// loop, and the transcendental exp is paid once per path at the end
// instead of once per step. Per-path mathematics are identical to the
// scalar engine; only traversal order and batching differ.
type vecThreadedEngine struct{}

func (vecThreadedEngine) Kind() EngineKind { return VectorizedMultithreaded }

func (vecThreadedEngine) Run(req Request) (*Result, error) {
	partial, diffusion := stepConstants(req)

	sampleCount := req.sampleCount()
	sample, err := allocSample(sampleCount, req.Steps)
	if err != nil {
		return nil, err
	}

	workers := req.workerCount(cpu.Detect().Threads)
	chunk := req.Paths / workers
	extra := req.Paths % workers

	sums := make([]float64, workers)
	logStart := math.Log(req.StartingPrice)

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
			var logP, z [batchWidth]float64

			i := lo
			for ; i+batchWidth <= hi; i += batchWidth {
				for k := range logP {
					logP[k] = logStart
				}
				// Paths below the sample cap also record every
				// intermediate price; later batches skip that work
				// entirely.
				recording := i < sampleCount
				if recording {
					for k := 0; k < batchWidth && i+k < sampleCount; k++ {
						sample[i+k][0] = req.StartingPrice
					}
				}

				for j := 1; j <= req.Steps; j++ {
					for k := range z {
						z[k] = norm.Rand()
					}
					logP[0] += partial + diffusion*z[0]
					logP[1] += partial + diffusion*z[1]
					logP[2] += partial + diffusion*z[2]
					logP[3] += partial + diffusion*z[3]
					logP[4] += partial + diffusion*z[4]
					logP[5] += partial + diffusion*z[5]
					logP[6] += partial + diffusion*z[6]
					logP[7] += partial + diffusion*z[7]

					if recording {
						for k := 0; k < batchWidth && i+k < sampleCount; k++ {
							sample[i+k][j] = math.Exp(logP[k])
						}
					}
				}

				for k := range logP {
					kahanAdd(&sum, &comp, math.Exp(logP[k]))
				}
			}

			// Remainder paths that do not fill a batch take the scalar
			// step update, still in log space.
			for ; i < hi; i++ {
				logPrice := logStart
				recorded := i < sampleCount
				if recorded {
					sample[i][0] = req.StartingPrice
				}
				for j := 1; j <= req.Steps; j++ {
					logPrice += partial + diffusion*norm.Rand()
					if recorded {
						sample[i][j] = math.Exp(logPrice)
					}
				}
				kahanAdd(&sum, &comp, math.Exp(logPrice))
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
		Engine:           VectorizedMultithreaded,
	}, nil
}
