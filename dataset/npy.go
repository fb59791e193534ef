// Package dataset loads paired input/target arrays from NumPy .npy files
// and serves them as shuffled batches to the training loop.
package dataset

import (
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// LoadMatrix reads a 2-D .npy array from path into a dense matrix.
func LoadMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataError("LoadMatrix", path, err)
	}
	defer f.Close()

	var m mat.Dense
	if err := npyio.Read(f, &m); err != nil {
		return nil, errors.NewDataError("LoadMatrix", path, err)
	}
	return &m, nil
}

// SaveMatrix writes a matrix to path as a .npy array. Tests and tooling use
// it to produce fixture files.
func SaveMatrix(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewDataError("SaveMatrix", path, err)
	}
	defer f.Close()

	if err := npyio.Write(f, m); err != nil {
		return errors.NewDataError("SaveMatrix", path, err)
	}
	return nil
}
