// Package nn implements the multi-label classifier trained by the seqtrain
// harness: a feed-forward network with explicit parameters, gradient
// backpropagation, and a versioned snapshot form for checkpointing.
package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Parameter is one trainable tensor together with its accumulated gradient.
// Value and Grad always share the same shape.
type Parameter struct {
	Name  string
	Value *mat.Dense
	Grad  *mat.Dense
}

// NewParameter allocates a parameter of the given shape with zero values and
// zero gradient.
func NewParameter(name string, rows, cols int) *Parameter {
	return &Parameter{
		Name:  name,
		Value: mat.NewDense(rows, cols, nil),
		Grad:  mat.NewDense(rows, cols, nil),
	}
}

// ZeroGrad clears the accumulated gradient.
func (p *Parameter) ZeroGrad() {
	p.Grad.Zero()
}

// Dims returns the parameter's shape.
func (p *Parameter) Dims() (rows, cols int) {
	return p.Value.Dims()
}
