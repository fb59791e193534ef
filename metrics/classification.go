package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// Sigmoid applies the logistic transform.
func Sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// ExactMatchAccuracy computes strict multi-label accuracy from raw logits.
//
// For each sample the logits pass through a logistic transform and are
// thresholded at 0.5 to a binary prediction vector. A sample counts as
// correct only when every label dimension matches its target; the result is
// the fraction of correct samples, in [0, 1].
func ExactMatchAccuracy(logits, targets *mat.Dense) (float64, error) {
	lr, lc := logits.Dims()
	tr, tc := targets.Dims()

	if lr == 0 || lc == 0 {
		return 0, errors.NewValueError("ExactMatchAccuracy", "empty logits")
	}
	if lr != tr {
		return 0, errors.NewDimensionError("ExactMatchAccuracy", lr, tr, 0)
	}
	if lc != tc {
		return 0, errors.NewDimensionError("ExactMatchAccuracy", lc, tc, 1)
	}

	correct := 0
	for i := 0; i < lr; i++ {
		match := true
		for j := 0; j < lc; j++ {
			pred := 0.0
			if Sigmoid(logits.At(i, j)) >= 0.5 {
				pred = 1.0
			}
			if pred != targets.At(i, j) {
				match = false
				break
			}
		}
		if match {
			correct++
		}
	}

	return float64(correct) / float64(lr), nil
}
