package gbm

import "math"

// varianceTolerance bounds the relative mismatch allowed between the
// request's variance and volatility squared. Both come from the same
// historical window, so any real disagreement means a normalization bug
// upstream.
const varianceTolerance = 1e-6

// ValidateParameters checks a request for domain validity. It is pure
// and cheap, and must pass before any engine allocates path storage.
func ValidateParameters(startingPrice, drift, variance, volatility float64, steps, paths int) error {
	if !isFinite(startingPrice) {
		return &InvalidParameterError{Param: "starting_price", Value: startingPrice, Reason: "must be finite"}
	}
	if startingPrice <= 0 {
		return &InvalidParameterError{Param: "starting_price", Value: startingPrice, Reason: "must be positive"}
	}
	if !isFinite(drift) {
		return &InvalidParameterError{Param: "drift", Value: drift, Reason: "must be finite"}
	}
	if !isFinite(variance) {
		return &InvalidParameterError{Param: "variance", Value: variance, Reason: "must be finite"}
	}
	if variance < 0 {
		return &InvalidParameterError{Param: "variance", Value: variance, Reason: "must not be negative"}
	}
	if !isFinite(volatility) {
		return &InvalidParameterError{Param: "volatility", Value: volatility, Reason: "must be finite"}
	}
	if volatility < 0 {
		return &InvalidParameterError{Param: "volatility", Value: volatility, Reason: "must not be negative"}
	}
	if steps < 1 {
		return &InvalidParameterError{Param: "steps", Value: float64(steps), Reason: "must be at least 1"}
	}
	if paths < 1 {
		return &InvalidParameterError{Param: "paths", Value: float64(paths), Reason: "must be at least 1"}
	}

	// volatility^2 must agree with variance within relative tolerance,
	// with an absolute floor so a pair of exact zeros passes.
	sq := volatility * volatility
	scale := math.Max(math.Max(variance, sq), 1e-12)
	if math.Abs(sq-variance) > varianceTolerance*scale {
		return &InvalidParameterError{
			Param:  "volatility",
			Value:  volatility,
			Reason: "volatility squared does not match variance",
		}
	}
	return nil
}

// Validate checks the request's own parameters.
func (r Request) Validate() error {
	return ValidateParameters(r.StartingPrice, r.Drift, r.Variance, r.Volatility, r.Steps, r.Paths)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
