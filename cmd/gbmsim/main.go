package main

import (
	"fmt"
	"os"
	"time"

	"github.com/luxfi/log"
	"github.com/spf13/cobra"

	"github.com/quantframe/gbmsim/pkg/cpu"
	"github.com/quantframe/gbmsim/pkg/forecast"
	"github.com/quantframe/gbmsim/pkg/gbm"
	"github.com/quantframe/gbmsim/pkg/marketdata"
	"github.com/quantframe/gbmsim/pkg/metrics"
)

const dateLayout = "2006-01-02"

func main() {
	root := &cobra.Command{
		Use:   "gbmsim",
		Short: "Monte Carlo GBM price simulator",
	}
	root.AddCommand(runCmd(), enginesCmd(), capsCmd(), benchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		csvPath string
		start   string
		end     string
		steps   int
		paths   int
		engine  string
		workers int
		seed    uint64
		sample  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train on a CSV price history and simulate forward",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := marketdata.LoadFile(csvPath)
			if err != nil {
				return err
			}

			startDate, err := time.Parse(dateLayout, start)
			if err != nil {
				return fmt.Errorf("invalid start date %q, use YYYY-MM-DD", start)
			}
			endDate, err := time.Parse(dateLayout, end)
			if err != nil {
				return fmt.Errorf("invalid end date %q, use YYYY-MM-DD", end)
			}

			logger := log.Root().New("module", "gbmsim")
			m, err := metrics.New("gbmsim", logger)
			if err != nil {
				return err
			}
			dispatcher := gbm.New(gbm.Config{Logger: logger, Observer: m})
			service := forecast.NewService(logger, dispatcher)

			report, err := service.Run(series, forecast.Config{
				Start:      startDate,
				End:        endDate,
				Steps:      steps,
				Paths:      paths,
				Engine:     gbm.ParseEngineKind(engine),
				Workers:    workers,
				Seed:       seed,
				SampleSize: sample,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Engine:             %s\n", report.Engine)
			fmt.Printf("Elapsed:            %s\n", report.Elapsed)
			fmt.Printf("Horizon drift:      %.6f\n", report.Stats.HorizonDrift)
			fmt.Printf("Horizon volatility: %.6f\n", report.Stats.HorizonVolatility)
			fmt.Printf("Avg terminal price: %.4f\n", report.AvgTerminalPrice)
			if report.HasRealPrice {
				fmt.Printf("Realized price:     %.4f\n", report.RealPrice)
				fmt.Printf("Predicted/realized: %.4f\n", report.Ratio)
			} else {
				fmt.Println("Realized price:     beyond available data")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file with Date and Close columns")
	cmd.Flags().StringVar(&start, "start", "", "training window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "training window end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&steps, "steps", 30, "prediction horizon in trading days")
	cmd.Flags().IntVar(&paths, "paths", 100000, "number of Monte Carlo paths")
	cmd.Flags().StringVar(&engine, "engine", "AUTO", "engine: AUTO, SCALAR, MT or SIMD")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count for parallel engines (0 = all hardware threads)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible worker streams (0 = random)")
	cmd.Flags().IntVar(&sample, "sample", 0, "paths retained for display (0 = default)")
	_ = cmd.MarkFlagRequired("csv")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func enginesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the engines compiled into this build",
		Run: func(cmd *cobra.Command, args []string) {
			for _, kind := range gbm.ListEngines() {
				fmt.Println(kind)
			}
		},
	}
}

func capsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Show detected hardware capabilities",
		Run: func(cmd *cobra.Command, args []string) {
			rec := cpu.Detect()
			fmt.Printf("AVX2:       %v\n", rec.HasAVX2)
			fmt.Printf("AVX512:     %v\n", rec.HasAVX512)
			fmt.Printf("Threads:    %d\n", rec.Threads)
			fmt.Printf("Cache line: %d bytes\n", rec.CacheLineBytes)
			fmt.Printf("AUTO picks: %s\n", gbm.SelectEngine(rec))
		},
	}
}
