// Package stats converts historical closing prices into the drift,
// variance and volatility parameters the simulation engines consume.
package stats

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/quantframe/gbmsim/pkg/marketdata"
)

// Statistics holds the per-period training measures and the same
// measures scaled to the prediction horizon. Values are computed fresh
// per simulation from a read-only price window and never mutated.
type Statistics struct {
	TrainingMean     float64 // mean per-period log return
	TrainingStdDev   float64 // sample standard deviation of log returns
	TrainingVariance float64

	HorizonDrift      float64 // TrainingMean * horizon
	HorizonVariance   float64 // TrainingVariance * horizon
	HorizonVolatility float64 // sqrt(HorizonVariance)
}

// InsufficientDataError reports a training window too short to yield a
// log return.
type InsufficientDataError struct {
	Points int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("training window has %d price points, need at least 2", e.Points)
}

// Compute derives statistics from an ordered closing-price window and a
// horizon of future steps. Log returns are per consecutive pair; the
// standard deviation is the sample (n-1) estimate. Horizon scaling
// assumes i.i.d. log returns, so variance scales linearly with the
// horizon.
func Compute(closes []float64, horizon int) (Statistics, error) {
	if len(closes) < 2 {
		return Statistics{}, &InsufficientDataError{Points: len(closes)}
	}
	if horizon < 1 {
		return Statistics{}, fmt.Errorf("horizon must be at least 1, got %d", horizon)
	}

	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = math.Log(closes[i]) - math.Log(closes[i-1])
	}

	mean := stat.Mean(returns, nil)
	// A single return has no dispersion estimate; treat it as zero
	// rather than propagating NaN into validation.
	stddev := 0.0
	if len(returns) > 1 {
		stddev = stat.StdDev(returns, nil)
	}
	variance := stddev * stddev

	h := float64(horizon)
	horizonVariance := variance * h
	return Statistics{
		TrainingMean:      mean,
		TrainingStdDev:    stddev,
		TrainingVariance:  variance,
		HorizonDrift:      mean * h,
		HorizonVariance:   horizonVariance,
		HorizonVolatility: math.Sqrt(horizonVariance),
	}, nil
}

// FromSeries computes statistics over the inclusive [start, end]
// training window of a series.
func FromSeries(s *marketdata.Series, start, end time.Time, horizon int) (Statistics, error) {
	closes, err := s.Window(start, end)
	if err != nil {
		return Statistics{}, err
	}
	return Compute(closes, horizon)
}
