// Package train implements the epoch-based training orchestration loop:
// batch iteration, gradient updates, validation metrics, plateau-triggered
// learning-rate reduction, and per-epoch checkpointing.
package train

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mlkit-go/seqtrain/core/model"
)

// Model is the classifier collaborator. Forward maps a batch of inputs
// (samples×features) to raw logits (samples×labels); Backward accumulates
// parameter gradients from the objective's gradient with respect to those
// logits. Snapshot and Restore serialize the full model state for
// checkpointing and warm starts.
type Model interface {
	Forward(x *mat.Dense) *mat.Dense
	Backward(gradLogits *mat.Dense)
	Snapshot() (*model.Snapshot, error)
	Restore(snap *model.Snapshot) error
}

// Objective is the differentiable loss collaborator. Loss returns the scalar
// objective value and its gradient with respect to the logits.
type Objective interface {
	Loss(logits, targets *mat.Dense) (float64, *mat.Dense, error)
}

// Optimizer is the parameter-update collaborator, bound to the model's
// parameters at construction. The learning rate is mutable so the plateau
// scheduler can reduce it between epochs.
type Optimizer interface {
	Step()
	ZeroGrad()
	LearningRate() float64
	SetLearningRate(lr float64)
}

// BatchSource yields one epoch's batches. Reset restarts iteration with a
// freshly permuted sample order; Next returns ok=false once the epoch is
// exhausted. Each sample appears exactly once per epoch and sample order
// within a yielded batch is stable.
type BatchSource interface {
	Reset()
	Next() (x, y *mat.Dense, ok bool)
	Batches() int
}

// CheckpointStore persists one snapshot per epoch.
type CheckpointStore interface {
	Save(snap *model.Snapshot, epoch int, validLoss float64) (string, error)
}

// Reporter receives per-epoch scalar series. It is purely observational: the
// loop ignores its errors beyond a warning, and a no-op implementation must
// not change any training outcome.
type Reporter interface {
	Log(epoch int, series string, value float64) error
	Close() error
}

// Series names forwarded to reporters, one per epoch.
const (
	SeriesTrainLoss     = "loss/train"
	SeriesValidLoss     = "loss/valid"
	SeriesValidAccuracy = "accuracy/valid"
)

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Log(epoch int, series string, value float64) error { return nil }
func (NopReporter) Close() error                                      { return nil }
