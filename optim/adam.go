// Package optim implements the parameter-update collaborators used by the
// training loop.
package optim

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mlkit-go/seqtrain/nn"
)

// AdamConfig holds Adam hyperparameters.
type AdamConfig struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
	WeightDecay  float64 // L2 penalty coefficient
}

// DefaultAdamConfig returns the canonical Adam settings.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		WeightDecay:  0.0,
	}
}

// Adam is an adaptive-moment optimizer over a fixed set of parameters. The
// learning rate is mutable so a plateau scheduler can reduce it between
// epochs; all other state (first/second moments, step count) is internal.
type Adam struct {
	params []*nn.Parameter

	lr          float64
	beta1       float64
	beta2       float64
	epsilon     float64
	weightDecay float64

	step int
	m    []*mat.Dense // first moment per parameter
	v    []*mat.Dense // second moment per parameter
}

// NewAdam binds an optimizer to the given parameters.
func NewAdam(params []*nn.Parameter, cfg AdamConfig) *Adam {
	if cfg.Beta1 == 0 {
		cfg.Beta1 = 0.9
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = 0.999
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 1e-8
	}

	a := &Adam{
		params:      params,
		lr:          cfg.LearningRate,
		beta1:       cfg.Beta1,
		beta2:       cfg.Beta2,
		epsilon:     cfg.Epsilon,
		weightDecay: cfg.WeightDecay,
		m:           make([]*mat.Dense, len(params)),
		v:           make([]*mat.Dense, len(params)),
	}
	for i, p := range params {
		rows, cols := p.Dims()
		a.m[i] = mat.NewDense(rows, cols, nil)
		a.v[i] = mat.NewDense(rows, cols, nil)
	}
	return a
}

// LearningRate returns the current learning rate.
func (a *Adam) LearningRate() float64 {
	return a.lr
}

// SetLearningRate replaces the learning rate. It takes effect on the next
// Step call.
func (a *Adam) SetLearningRate(lr float64) {
	a.lr = lr
}

// ZeroGrad clears the gradients of all bound parameters.
func (a *Adam) ZeroGrad() {
	for _, p := range a.params {
		p.ZeroGrad()
	}
}

// Step applies one Adam update to every bound parameter using its
// accumulated gradient. The L2 penalty is added to the gradient before the
// moment updates, matching the coupled weight-decay formulation.
func (a *Adam) Step() {
	a.step++
	bc1 := 1 - math.Pow(a.beta1, float64(a.step))
	bc2 := 1 - math.Pow(a.beta2, float64(a.step))

	for i, p := range a.params {
		rows, cols := p.Dims()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				g := p.Grad.At(r, c)
				if a.weightDecay != 0 {
					g += a.weightDecay * p.Value.At(r, c)
				}

				m := a.beta1*a.m[i].At(r, c) + (1-a.beta1)*g
				v := a.beta2*a.v[i].At(r, c) + (1-a.beta2)*g*g
				a.m[i].Set(r, c, m)
				a.v[i].Set(r, c, v)

				mHat := m / bc1
				vHat := v / bc2

				p.Value.Set(r, c, p.Value.At(r, c)-a.lr*mHat/(math.Sqrt(vHat)+a.epsilon))
			}
		}
	}
}
