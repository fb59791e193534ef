package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// BCEWithLogits is binary cross-entropy computed directly from raw logits,
// averaged over every element of the batch. Working on logits avoids the
// overflow of exp on large magnitudes: the per-element loss is
//
//	max(z, 0) − z·y + log(1 + exp(−|z|))
//
// and the gradient with respect to the logits is (sigmoid(z) − y) / n.
type BCEWithLogits struct{}

// NewBCEWithLogits returns the objective.
func NewBCEWithLogits() *BCEWithLogits {
	return &BCEWithLogits{}
}

// Loss returns the mean element-wise loss and its gradient with respect to
// logits. Targets must be 0/1 valued and the same shape as logits.
func (*BCEWithLogits) Loss(logits, targets *mat.Dense) (float64, *mat.Dense, error) {
	lr, lc := logits.Dims()
	tr, tc := targets.Dims()

	if lr == 0 || lc == 0 {
		return 0, nil, errors.NewValueError("BCEWithLogits.Loss", "empty logits")
	}
	if lr != tr {
		return 0, nil, errors.NewDimensionError("BCEWithLogits.Loss", lr, tr, 0)
	}
	if lc != tc {
		return 0, nil, errors.NewDimensionError("BCEWithLogits.Loss", lc, tc, 1)
	}

	n := float64(lr * lc)
	grad := mat.NewDense(lr, lc, nil)

	sum := 0.0
	for i := 0; i < lr; i++ {
		for j := 0; j < lc; j++ {
			z := logits.At(i, j)
			y := targets.At(i, j)

			sum += math.Max(z, 0) - z*y + math.Log1p(math.Exp(-math.Abs(z)))

			sigma := 1.0 / (1.0 + math.Exp(-z))
			grad.Set(i, j, (sigma-y)/n)
		}
	}

	return sum / n, grad, nil
}
