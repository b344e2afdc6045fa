package gbm

import "math"

func init() {
	registerEngine(scalarEngine{})
}

// scalarEngine runs every path sequentially on the calling goroutine.
// It is the correctness baseline the parallel engines are tested
// against.
type scalarEngine struct{}

func (scalarEngine) Kind() EngineKind { return Scalar }

func (scalarEngine) Run(req Request) (*Result, error) {
	partial, diffusion := stepConstants(req)

	sampleCount := req.sampleCount()
	sample, err := allocSample(sampleCount, req.Steps)
	if err != nil {
		return nil, err
	}

	norm := normStream(req.Seed, 0)

	var sum, comp float64
	for i := 0; i < req.Paths; i++ {
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

	return &Result{
		PathSample:       sample,
		AvgTerminalPrice: sum / float64(req.Paths),
		Engine:           Scalar,
	}, nil
}
