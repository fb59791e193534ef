package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Linear is a fully connected layer computing X*W + b row-wise.
type Linear struct {
	W *Parameter // in×out
	B *Parameter // 1×out

	// input cached by Forward for the following Backward.
	input *mat.Dense
}

// NewLinear creates a layer with Xavier-uniform weights drawn from rng and
// zero biases.
func NewLinear(name string, in, out int, rng *rand.Rand) *Linear {
	l := &Linear{
		W: NewParameter(name+".w", in, out),
		B: NewParameter(name+".b", 1, out),
	}

	limit := math.Sqrt(6.0 / float64(in+out))
	for i := 0; i < in; i++ {
		for j := 0; j < out; j++ {
			l.W.Value.Set(i, j, (rng.Float64()*2-1)*limit)
		}
	}
	return l
}

// Forward computes X*W + b and caches X for Backward.
func (l *Linear) Forward(x *mat.Dense) *mat.Dense {
	l.input = x

	n, _ := x.Dims()
	_, out := l.W.Value.Dims()

	var y mat.Dense
	y.Mul(x, l.W.Value)
	for i := 0; i < n; i++ {
		for j := 0; j < out; j++ {
			y.Set(i, j, y.At(i, j)+l.B.Value.At(0, j))
		}
	}
	return &y
}

// Backward accumulates parameter gradients from the upstream gradient and
// returns the gradient with respect to the layer input.
func (l *Linear) Backward(gradOut *mat.Dense) *mat.Dense {
	n, out := gradOut.Dims()

	// dW += Xᵀ · dY
	var dW mat.Dense
	dW.Mul(l.input.T(), gradOut)
	l.W.Grad.Add(l.W.Grad, &dW)

	// db += column sums of dY
	for j := 0; j < out; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += gradOut.At(i, j)
		}
		l.B.Grad.Set(0, j, l.B.Grad.At(0, j)+sum)
	}

	// dX = dY · Wᵀ
	var dX mat.Dense
	dX.Mul(gradOut, l.W.Value.T())
	return &dX
}

// Parameters returns the layer's trainable parameters.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.W, l.B}
}
