// Package preprocessing provides feature scaling for the input arrays.
// Statistics are always fitted on the training split only and applied to both
// splits, so validation data never leaks into the transform.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mlkit-go/seqtrain/core/model"
	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// StandardScaler shifts each feature to zero mean and unit standard
// deviation. Near-constant features keep a scale of 1 so the transform never
// divides by zero.
type StandardScaler struct {
	model.BaseEstimator

	Mean  []float64
	Scale []float64
}

// NewStandardScaler returns an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-feature mean and standard deviation from x.
func (s *StandardScaler) Fit(x *mat.Dense) error {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError("StandardScaler.Fit", "empty data")
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += x.At(i, j)
		}
		s.Mean[j] = sum / float64(r)

		sumSquares := 0.0
		for i := 0; i < r; i++ {
			d := x.At(i, j) - s.Mean[j]
			sumSquares += d * d
		}
		s.Scale[j] = math.Sqrt(sumSquares / float64(r))
		if s.Scale[j] < 1e-8 {
			s.Scale[j] = 1.0
		}
	}

	s.SetFitted()
	return nil
}

// Transform standardizes x with the fitted statistics.
func (s *StandardScaler) Transform(x *mat.Dense) (*mat.Dense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := x.Dims()
	if c != len(s.Mean) {
		return nil, errors.NewDimensionError("StandardScaler.Transform", len(s.Mean), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (x.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return out, nil
}

// FitTransform fits on x and returns the standardized x.
func (s *StandardScaler) FitTransform(x *mat.Dense) (*mat.Dense, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}

// InverseTransform maps standardized values back to the original scale.
func (s *StandardScaler) InverseTransform(x *mat.Dense) (*mat.Dense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := x.Dims()
	if c != len(s.Mean) {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", len(s.Mean), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, x.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}
	return out, nil
}
