// Package model provides the base state shared by trainable models and the
// versioned snapshot format used for checkpointing and warm starts.
package model

// EstimatorState represents the lifecycle state of a model.
type EstimatorState int

const (
	// NotFitted means the model has no usable parameters yet.
	NotFitted EstimatorState = iota
	// Fitted means the model's parameters are initialized or trained.
	Fitted
)

// BaseEstimator is embedded by models to track fitted state.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the model has usable parameters.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the model as having usable parameters.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the model to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
