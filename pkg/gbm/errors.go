package gbm

import "fmt"

// InvalidParameterError reports a simulation parameter outside its
// domain. Param names the offending field and Reason the violated
// bound.
type InvalidParameterError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

// EngineUnavailableError reports an explicit request for an engine that
// is not compiled into this build. The dispatcher never substitutes
// another engine in its place.
type EngineUnavailableError struct {
	Kind EngineKind
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("engine %s is not available in this build", e.Kind)
}

// ResourceExhaustedError reports that a simulation would exceed the
// path-storage budget. Requested and Budget are byte counts.
type ResourceExhaustedError struct {
	Requested uint64
	Budget    uint64
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("simulation needs %d bytes of path storage, budget is %d", e.Requested, e.Budget)
}
