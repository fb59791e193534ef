package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// TensorDataset pairs an input matrix (samples×features) with a target
// matrix (samples×labels) sharing the leading dimension.
type TensorDataset struct {
	x *mat.Dense
	y *mat.Dense
}

// NewTensorDataset validates the pairing and wraps the matrices. The data is
// not copied; callers must not mutate it while training.
func NewTensorDataset(x, y *mat.Dense) (*TensorDataset, error) {
	xr, xc := x.Dims()
	yr, yc := y.Dims()

	if xr == 0 || xc == 0 {
		return nil, errors.NewValueError("NewTensorDataset", "empty input matrix")
	}
	if yc == 0 {
		return nil, errors.NewValueError("NewTensorDataset", "empty target matrix")
	}
	if xr != yr {
		return nil, errors.NewDimensionError("NewTensorDataset", xr, yr, 0)
	}

	return &TensorDataset{x: x, y: y}, nil
}

// Open loads both .npy arrays and pairs them. Any missing or malformed file,
// or a sample-count mismatch, is fatal here, before training starts.
func Open(xPath, yPath string) (*TensorDataset, error) {
	x, err := LoadMatrix(xPath)
	if err != nil {
		return nil, err
	}
	y, err := LoadMatrix(yPath)
	if err != nil {
		return nil, err
	}
	ds, err := NewTensorDataset(x, y)
	if err != nil {
		return nil, errors.Wrapf(err, "pairing %q with %q", xPath, yPath)
	}
	return ds, nil
}

// Len returns the number of samples.
func (d *TensorDataset) Len() int {
	r, _ := d.x.Dims()
	return r
}

// Features returns the input width per sample.
func (d *TensorDataset) Features() int {
	_, c := d.x.Dims()
	return c
}

// Labels returns the target width per sample.
func (d *TensorDataset) Labels() int {
	_, c := d.y.Dims()
	return c
}

// Row copies sample i into the given destination slices.
func (d *TensorDataset) Row(i int, xDst, yDst []float64) {
	copy(xDst, d.x.RawRowView(i))
	copy(yDst, d.y.RawRowView(i))
}
