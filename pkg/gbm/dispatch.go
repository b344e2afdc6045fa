package gbm

import (
	"time"

	"github.com/luxfi/log"

	"github.com/quantframe/gbmsim/pkg/cpu"
)

// Observer receives a record of every completed simulation. The metrics
// package implements it; a nil observer is ignored.
type Observer interface {
	ObserveSimulation(engine EngineKind, paths int, elapsed time.Duration)
}

// Dispatcher routes simulation requests to a concrete engine. The zero
// value is usable; New wires in logging and metrics.
type Dispatcher struct {
	logger   log.Logger
	observer Observer
}

// Config configures a Dispatcher.
type Config struct {
	Logger   log.Logger
	Observer Observer
}

// New creates a dispatcher.
func New(config Config) *Dispatcher {
	return &Dispatcher{
		logger:   config.Logger,
		observer: config.Observer,
	}
}

// Dispatch validates the request and runs it on the requested engine.
// A concrete kind is invoked directly and fails with
// EngineUnavailableError when it is not compiled in; Auto resolves
// through SelectEngine. The call is synchronous: it returns only after
// the full ensemble has been simulated and reduced. Errors are terminal,
// nothing is retried and no engine is substituted for another.
func (d *Dispatcher) Dispatch(req Request, kind EngineKind) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resolved := kind
	if kind == Auto {
		resolved = SelectEngine(cpu.Detect())
	}

	eng, ok := engines[resolved]
	if !ok {
		return nil, &EngineUnavailableError{Kind: resolved}
	}

	if d.logger != nil {
		d.logger.Debug("dispatching simulation",
			"engine", resolved.String(),
			"steps", req.Steps,
			"paths", req.Paths,
		)
	}

	start := time.Now()
	result, err := eng.Run(req)
	if err != nil {
		return nil, err
	}
	result.Elapsed = time.Since(start)

	if d.observer != nil {
		d.observer.ObserveSimulation(resolved, req.Paths, result.Elapsed)
	}
	if d.logger != nil {
		d.logger.Info("simulation complete",
			"engine", resolved.String(),
			"paths", req.Paths,
			"avg_terminal_price", result.AvgTerminalPrice,
			"elapsed", result.Elapsed,
		)
	}
	return result, nil
}

// SelectEngine resolves Auto against a capability record. Priority is
// fixed: the vectorized engine when the host has wide SIMD, the
// threaded engine when more than one hardware thread exists, the scalar
// engine otherwise. Each step requires the engine to be compiled in,
// and the scalar engine is always compiled in, so selection cannot
// fail. The function is pure: same record and build, same answer.
func SelectEngine(rec cpu.Record) EngineKind {
	if rec.WideSIMD() && Available(VectorizedMultithreaded) {
		return VectorizedMultithreaded
	}
	if rec.Threads > 1 && Available(Multithreaded) {
		return Multithreaded
	}
	return Scalar
}

var defaultDispatcher = &Dispatcher{}

// Dispatch runs a request through a package-level dispatcher with no
// logging or metrics attached.
func Dispatch(req Request, kind EngineKind) (*Result, error) {
	return defaultDispatcher.Dispatch(req, kind)
}
