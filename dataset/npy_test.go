package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMatrixRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.npy")

	want := mat.NewDense(3, 2, []float64{
		1.5, -0.25,
		0.0, 42.0,
		-7.125, 3.0,
	})
	require.NoError(t, SaveMatrix(path, want))

	got, err := LoadMatrix(path)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}

func TestLoadMatrixMissingFile(t *testing.T) {
	_, err := LoadMatrix(filepath.Join(t.TempDir(), "absent.npy"))
	assert.Error(t, err)
}

func TestLoadMatrixMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.npy")
	require.NoError(t, os.WriteFile(path, []byte("not an npy header"), 0o644))

	_, err := LoadMatrix(path)
	assert.Error(t, err)
}

func TestOpenPairsSplits(t *testing.T) {
	dir := t.TempDir()
	xPath := filepath.Join(dir, "X.npy")
	yPath := filepath.Join(dir, "y.npy")

	require.NoError(t, SaveMatrix(xPath, mat.NewDense(4, 3, nil)))
	require.NoError(t, SaveMatrix(yPath, mat.NewDense(4, 2, nil)))

	ds, err := Open(xPath, yPath)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 3, ds.Features())
	assert.Equal(t, 2, ds.Labels())
}

func TestOpenRejectsSampleMismatch(t *testing.T) {
	dir := t.TempDir()
	xPath := filepath.Join(dir, "X.npy")
	yPath := filepath.Join(dir, "y.npy")

	require.NoError(t, SaveMatrix(xPath, mat.NewDense(4, 3, nil)))
	require.NoError(t, SaveMatrix(yPath, mat.NewDense(5, 2, nil)))

	_, err := Open(xPath, yPath)
	assert.Error(t, err)
}
