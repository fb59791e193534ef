package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestStandardScalerFitTransform(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	s := NewStandardScaler()
	scaled, err := s.FitTransform(x)
	require.NoError(t, err)

	assert.Equal(t, []float64{2.5, 25}, s.Mean)

	// Each column of the output has zero mean and unit standard deviation.
	r, c := scaled.Dims()
	for j := 0; j < c; j++ {
		sum, sumSq := 0.0, 0.0
		for i := 0; i < r; i++ {
			v := scaled.At(i, j)
			sum += v
			sumSq += v * v
		}
		mean := sum / float64(r)
		assert.InDelta(t, 0, mean, 1e-12, "column %d mean", j)
		assert.InDelta(t, 1, math.Sqrt(sumSq/float64(r)-mean*mean), 1e-12, "column %d stddev", j)
	}
}

func TestStandardScalerAppliesTrainStatistics(t *testing.T) {
	train := mat.NewDense(2, 1, []float64{0, 2}) // mean 1, stddev 1
	valid := mat.NewDense(2, 1, []float64{5, 7})

	s := NewStandardScaler()
	require.NoError(t, s.Fit(train))

	got, err := s.Transform(valid)
	require.NoError(t, err)

	// Validation values are shifted by the training statistics, not their own.
	assert.InDelta(t, 4, got.At(0, 0), 1e-12)
	assert.InDelta(t, 6, got.At(1, 0), 1e-12)
}

func TestStandardScalerConstantFeature(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{7, 7, 7})

	s := NewStandardScaler()
	scaled, err := s.FitTransform(x)
	require.NoError(t, err)

	// Constant feature: scale pinned to 1, output is just mean-centered.
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, scaled.At(i, 0))
	}
}

func TestStandardScalerInverseTransform(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1.5, -2, 0.25, 4, -3, 0.5})

	s := NewStandardScaler()
	scaled, err := s.FitTransform(x)
	require.NoError(t, err)

	back, err := s.InverseTransform(scaled)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(x, back, 1e-12))
}

func TestStandardScalerErrors(t *testing.T) {
	s := NewStandardScaler()

	_, err := s.Transform(mat.NewDense(1, 2, nil))
	assert.Error(t, err, "transform before fit must fail")

	require.NoError(t, s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = s.Transform(mat.NewDense(1, 3, nil))
	assert.Error(t, err, "feature width mismatch must fail")
}
