package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantframe/gbmsim/pkg/cpu"
	"github.com/quantframe/gbmsim/pkg/gbm"
)

type benchResult struct {
	engine      gbm.EngineKind
	elapsed     time.Duration
	pathsPerSec float64
}

func benchCmd() *cobra.Command {
	var (
		steps   int
		paths   int
		rounds  int
		workers int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare every compiled-in engine on one workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := cpu.Detect()
			fmt.Printf("Workload: %d paths x %d steps, %d rounds\n", paths, steps, rounds)
			fmt.Printf("Hardware: %d threads, AVX2=%v, AVX512=%v\n\n", rec.Threads, rec.HasAVX2, rec.HasAVX512)

			req := gbm.Request{
				StartingPrice: 100,
				Drift:         0.01,
				Variance:      0.0004,
				Volatility:    0.02,
				Steps:         steps,
				Paths:         paths,
				Workers:       workers,
				Seed:          1,
			}

			var results []benchResult
			for _, kind := range gbm.ListEngines() {
				if kind == gbm.Auto {
					continue
				}
				res, err := runBench(req, kind, rounds)
				if err != nil {
					return err
				}
				results = append(results, res)
				fmt.Printf("%-8s %12s  %14.0f paths/s\n", res.engine, res.elapsed.Round(time.Microsecond), res.pathsPerSec)
			}

			if len(results) > 1 {
				base := results[0]
				fmt.Println()
				for _, r := range results[1:] {
					fmt.Printf("%s speedup over %s: %.2fx\n", r.engine, base.engine, base.elapsed.Seconds()/r.elapsed.Seconds())
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 50, "steps per path")
	cmd.Flags().IntVar(&paths, "paths", 500000, "paths per round")
	cmd.Flags().IntVar(&rounds, "rounds", 3, "rounds per engine, best round reported")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count for parallel engines")
	return cmd
}

func runBench(req gbm.Request, kind gbm.EngineKind, rounds int) (benchResult, error) {
	best := time.Duration(0)
	for i := 0; i < rounds; i++ {
		result, err := gbm.Dispatch(req, kind)
		if err != nil {
			return benchResult{}, err
		}
		if best == 0 || result.Elapsed < best {
			best = result.Elapsed
		}
	}
	return benchResult{
		engine:      kind,
		elapsed:     best,
		pathsPerSec: float64(req.Paths) / best.Seconds(),
	}, nil
}
