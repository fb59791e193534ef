package nn

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/mlkit-go/seqtrain/core/model"
	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// Arch is the architecture tag embedded in snapshots of this model.
const Arch = "mlp-classifier"

// MLP is a two-layer feed-forward multi-label classifier:
// Linear(features→hidden) → ReLU → Linear(hidden→labels). Forward returns
// raw logits; pair it with BCEWithLogits for training.
type MLP struct {
	model.BaseEstimator

	features int
	hidden   int
	labels   int

	hiddenLayer *Linear
	outputLayer *Linear

	// preAct caches the hidden pre-activation for the ReLU backward pass.
	preAct *mat.Dense
}

// NewMLP creates a classifier with Xavier-initialized weights drawn from
// rng. The rng is the caller's parameter-initialization generator; the model
// holds no randomness of its own after construction.
func NewMLP(features, hidden, labels int, rng *rand.Rand) (*MLP, error) {
	if features <= 0 {
		return nil, errors.NewValueError("NewMLP", "features must be positive")
	}
	if hidden <= 0 {
		return nil, errors.NewValueError("NewMLP", "hidden must be positive")
	}
	if labels <= 0 {
		return nil, errors.NewValueError("NewMLP", "labels must be positive")
	}

	m := &MLP{
		features:    features,
		hidden:      hidden,
		labels:      labels,
		hiddenLayer: NewLinear("hidden", features, hidden, rng),
		outputLayer: NewLinear("output", hidden, labels, rng),
	}
	m.SetFitted()
	return m, nil
}

// Features returns the input width.
func (m *MLP) Features() int { return m.features }

// Labels returns the multi-label output width.
func (m *MLP) Labels() int { return m.labels }

// Forward computes logits of shape samples×labels and caches activations
// for Backward.
func (m *MLP) Forward(x *mat.Dense) *mat.Dense {
	h := m.hiddenLayer.Forward(x)
	m.preAct = h

	rows, cols := h.Dims()
	a := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := h.At(i, j)
			if v > 0 {
				a.Set(i, j, v)
			}
		}
	}

	return m.outputLayer.Forward(a)
}

// Backward accumulates gradients for all parameters from the gradient of the
// objective with respect to the logits. Forward must have been called first.
func (m *MLP) Backward(gradLogits *mat.Dense) {
	dA := m.outputLayer.Backward(gradLogits)

	// ReLU gate: pass gradient only where the pre-activation was positive.
	rows, cols := dA.Dims()
	dH := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if m.preAct.At(i, j) > 0 {
				dH.Set(i, j, dA.At(i, j))
			}
		}
	}

	m.hiddenLayer.Backward(dH)
}

// Parameters returns all trainable parameters in declaration order.
func (m *MLP) Parameters() []*Parameter {
	params := m.hiddenLayer.Parameters()
	return append(params, m.outputLayer.Parameters()...)
}

// ZeroGrad clears all accumulated gradients.
func (m *MLP) ZeroGrad() {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// Predict returns logits for X, validating the input width.
func (m *MLP) Predict(x *mat.Dense) (*mat.Dense, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MLP", "Predict")
	}
	_, c := x.Dims()
	if c != m.features {
		return nil, errors.NewDimensionError("MLP.Predict", m.features, c, 1)
	}
	return m.Forward(x), nil
}

// Snapshot serializes the full model state into the versioned snapshot
// format.
func (m *MLP) Snapshot() (*model.Snapshot, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MLP", "Snapshot")
	}

	params := m.Parameters()
	tensors := make([]model.TensorWeights, len(params))
	for i, p := range params {
		rows, cols := p.Dims()
		data := make([]float64, 0, rows*cols)
		for r := 0; r < rows; r++ {
			data = append(data, p.Value.RawRowView(r)...)
		}
		tensors[i] = model.TensorWeights{
			Name:  p.Name,
			Shape: []int{rows, cols},
			Data:  data,
		}
	}

	return &model.Snapshot{
		Arch:    Arch,
		Version: model.SnapshotVersion,
		Tensors: tensors,
		Hyperparams: map[string]int{
			"features": m.features,
			"hidden":   m.hidden,
			"labels":   m.labels,
		},
	}, nil
}

// Restore loads parameter values from a snapshot, validating the
// architecture tag, format version, and tensor shapes first.
func (m *MLP) Restore(snap *model.Snapshot) error {
	if err := snap.CheckCompat(Arch); err != nil {
		return err
	}

	params := m.Parameters()
	if len(snap.Tensors) != len(params) {
		return errors.Newf("restore: expected %d tensors, got %d", len(params), len(snap.Tensors))
	}

	for i, p := range params {
		t := snap.Tensors[i]
		rows, cols := p.Dims()
		if len(t.Shape) != 2 || t.Shape[0] != rows || t.Shape[1] != cols {
			return errors.Newf("restore: tensor %q has shape %v, want [%d %d]", t.Name, t.Shape, rows, cols)
		}
		idx := 0
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				p.Value.Set(r, c, t.Data[idx])
				idx++
			}
		}
	}

	m.SetFitted()
	return nil
}

// FromSnapshot builds a model whose architecture hyperparameters come from
// the snapshot and restores its parameters. This is the warm-start path.
func FromSnapshot(snap *model.Snapshot) (*MLP, error) {
	if err := snap.CheckCompat(Arch); err != nil {
		return nil, err
	}

	features := snap.Hyperparams["features"]
	hidden := snap.Hyperparams["hidden"]
	labels := snap.Hyperparams["labels"]

	// Initialization values are immediately overwritten by Restore; the
	// fixed seed only keeps construction deterministic.
	m, err := NewMLP(features, hidden, labels, rand.New(rand.NewSource(0)))
	if err != nil {
		return nil, err
	}
	if err := m.Restore(snap); err != nil {
		return nil, err
	}
	return m, nil
}
