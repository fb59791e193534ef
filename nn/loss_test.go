package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBCEWithLogitsValues(t *testing.T) {
	obj := NewBCEWithLogits()

	t.Run("Zero logit is ln 2 regardless of target", func(t *testing.T) {
		for _, target := range []float64{0, 1} {
			loss, _, err := obj.Loss(
				mat.NewDense(1, 1, []float64{0}),
				mat.NewDense(1, 1, []float64{target}),
			)
			require.NoError(t, err)
			assert.InDelta(t, math.Log(2), loss, 1e-12)
		}
	})

	t.Run("Confident correct prediction is near zero", func(t *testing.T) {
		loss, _, err := obj.Loss(
			mat.NewDense(1, 2, []float64{20, -20}),
			mat.NewDense(1, 2, []float64{1, 0}),
		)
		require.NoError(t, err)
		assert.Less(t, loss, 1e-8)
	})

	t.Run("Confident wrong prediction is large", func(t *testing.T) {
		loss, _, err := obj.Loss(
			mat.NewDense(1, 1, []float64{20}),
			mat.NewDense(1, 1, []float64{0}),
		)
		require.NoError(t, err)
		assert.InDelta(t, 20, loss, 1e-6)
	})

	t.Run("Mean over all elements", func(t *testing.T) {
		// Two elements, one at ln 2 and one near zero.
		loss, _, err := obj.Loss(
			mat.NewDense(1, 2, []float64{0, 20}),
			mat.NewDense(1, 2, []float64{1, 1}),
		)
		require.NoError(t, err)
		assert.InDelta(t, math.Log(2)/2, loss, 1e-8)
	})

	t.Run("Extreme logits stay finite", func(t *testing.T) {
		loss, grad, err := obj.Loss(
			mat.NewDense(1, 2, []float64{1000, -1000}),
			mat.NewDense(1, 2, []float64{0, 1}),
		)
		require.NoError(t, err)
		assert.False(t, math.IsInf(loss, 0))
		assert.False(t, math.IsNaN(loss))
		assert.False(t, math.IsNaN(grad.At(0, 0)))
	})
}

func TestBCEWithLogitsGradient(t *testing.T) {
	obj := NewBCEWithLogits()

	logits := mat.NewDense(2, 3, []float64{
		0.5, -1.2, 2.0,
		-0.3, 0.0, 1.7,
	})
	targets := mat.NewDense(2, 3, []float64{
		1, 0, 1,
		0, 1, 0,
	})

	_, grad, err := obj.Loss(logits, targets)
	require.NoError(t, err)

	// Finite-difference check against the analytic gradient.
	const h = 1e-6
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			orig := logits.At(i, j)

			logits.Set(i, j, orig+h)
			plus, _, err := obj.Loss(logits, targets)
			require.NoError(t, err)

			logits.Set(i, j, orig-h)
			minus, _, err := obj.Loss(logits, targets)
			require.NoError(t, err)

			logits.Set(i, j, orig)

			numeric := (plus - minus) / (2 * h)
			assert.InDelta(t, numeric, grad.At(i, j), 1e-6,
				"gradient mismatch at (%d,%d)", i, j)
		}
	}
}

func TestBCEWithLogitsShapeErrors(t *testing.T) {
	obj := NewBCEWithLogits()

	_, _, err := obj.Loss(
		mat.NewDense(2, 1, []float64{0, 0}),
		mat.NewDense(1, 1, []float64{1}),
	)
	assert.Error(t, err)

	_, _, err = obj.Loss(
		mat.NewDense(1, 2, []float64{0, 0}),
		mat.NewDense(1, 1, []float64{1}),
	)
	assert.Error(t, err)
}
