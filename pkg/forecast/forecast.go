// Package forecast ties a historical price series to the simulation
// core: it trains statistics on a date window, dispatches a simulation
// over the requested horizon and, when the series extends far enough,
// scores the prediction against the realized price.
package forecast

import (
	"fmt"
	"time"

	"github.com/luxfi/log"

	"github.com/quantframe/gbmsim/pkg/gbm"
	"github.com/quantframe/gbmsim/pkg/marketdata"
	"github.com/quantframe/gbmsim/pkg/stats"
)

// Config describes one forecast run.
type Config struct {
	Start time.Time // training window start (inclusive)
	End   time.Time // training window end (inclusive)
	Steps int       // prediction horizon in trading days
	Paths int       // Monte Carlo trials

	Engine     gbm.EngineKind
	Workers    int
	Seed       uint64
	SampleSize int
}

// Report is the outcome of a forecast run. RealPrice and Ratio are set
// only when the series extends Steps days past the training window.
type Report struct {
	Stats            stats.Statistics
	AvgTerminalPrice float64
	RealPrice        float64
	HasRealPrice     bool
	Ratio            float64
	Engine           gbm.EngineKind
	Elapsed          time.Duration
	PathSample       [][]float64
}

// Service runs forecasts against price series.
type Service struct {
	logger     log.Logger
	dispatcher *gbm.Dispatcher
}

// NewService creates a forecast service. A nil dispatcher gets a plain
// one with no metrics attached.
func NewService(logger log.Logger, dispatcher *gbm.Dispatcher) *Service {
	if dispatcher == nil {
		dispatcher = gbm.New(gbm.Config{Logger: logger})
	}
	return &Service{logger: logger, dispatcher: dispatcher}
}

// Run trains on series[config.Start, config.End], simulates
// config.Steps days forward and reports the ensemble average against
// the realized price when one exists.
func (s *Service) Run(series *marketdata.Series, config Config) (*Report, error) {
	if series == nil {
		return nil, fmt.Errorf("no price series loaded")
	}
	if config.Steps < 1 {
		return nil, fmt.Errorf("steps must be positive, got %d", config.Steps)
	}
	if config.Paths < 1 {
		return nil, fmt.Errorf("paths must be positive, got %d", config.Paths)
	}

	st, err := stats.FromSeries(series, config.Start, config.End, config.Steps)
	if err != nil {
		return nil, err
	}

	// The walk starts from the last close of the training window.
	startClose, err := series.CloseAt(config.End)
	if err != nil {
		return nil, err
	}
	startingPrice, _ := startClose.Float64()

	req := gbm.Request{
		StartingPrice: startingPrice,
		Drift:         st.HorizonDrift,
		Variance:      st.HorizonVariance,
		Volatility:    st.HorizonVolatility,
		Steps:         config.Steps,
		Paths:         config.Paths,
		Workers:       config.Workers,
		Seed:          config.Seed,
		SampleSize:    config.SampleSize,
	}

	result, err := s.dispatcher.Dispatch(req, config.Engine)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Stats:            st,
		AvgTerminalPrice: result.AvgTerminalPrice,
		Engine:           result.Engine,
		Elapsed:          result.Elapsed,
		PathSample:       result.PathSample,
	}

	if real, ok := series.FuturePrice(config.End, config.Steps); ok {
		report.RealPrice, _ = real.Float64()
		report.HasRealPrice = true
		if report.RealPrice != 0 {
			report.Ratio = report.AvgTerminalPrice / report.RealPrice
		}
	}

	if s.logger != nil {
		s.logger.Info("forecast complete",
			"engine", report.Engine.String(),
			"avg_terminal_price", report.AvgTerminalPrice,
			"has_real_price", report.HasRealPrice,
			"elapsed", report.Elapsed,
		)
	}
	return report, nil
}
