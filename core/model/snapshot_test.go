package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Arch:    "mlp-classifier",
		Version: SnapshotVersion,
		Tensors: []TensorWeights{
			{Name: "hidden.w", Shape: []int{2, 3}, Data: []float64{1, 2, 3, 4, 5, 6}},
			{Name: "hidden.b", Shape: []int{1, 3}, Data: []float64{0.1, 0.2, 0.3}},
		},
		Hyperparams: map[string]int{"features": 2, "hidden": 3, "labels": 1},
	}
}

func TestSnapshotValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, sampleSnapshot().Validate())
	})

	t.Run("Missing arch", func(t *testing.T) {
		s := sampleSnapshot()
		s.Arch = ""
		assert.Error(t, s.Validate())
	})

	t.Run("Missing version", func(t *testing.T) {
		s := sampleSnapshot()
		s.Version = ""
		assert.Error(t, s.Validate())
	})

	t.Run("Shape and data length disagree", func(t *testing.T) {
		s := sampleSnapshot()
		s.Tensors[0].Data = s.Tensors[0].Data[:4]
		assert.Error(t, s.Validate())
	})
}

func TestSnapshotCheckCompat(t *testing.T) {
	s := sampleSnapshot()

	assert.NoError(t, s.CheckCompat("mlp-classifier"))
	assert.Error(t, s.CheckCompat("linear-regressor"))

	s.Version = "0"
	assert.Error(t, s.CheckCompat("mlp-classifier"))
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	s := sampleSnapshot()
	s.Metadata = map[string]interface{}{"epoch": 3}

	data, err := s.ToJSON()
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, got.FromJSON(data))

	assert.Equal(t, s.Arch, got.Arch)
	assert.Equal(t, s.Version, got.Version)
	assert.Equal(t, s.Tensors, got.Tensors)
	assert.Equal(t, s.Hyperparams, got.Hyperparams)
}

func TestSnapshotClone(t *testing.T) {
	s := sampleSnapshot()
	c := s.Clone()

	// Mutating the clone must not leak into the original.
	c.Tensors[0].Data[0] = 99
	c.Hyperparams["features"] = 99

	assert.Equal(t, 1.0, s.Tensors[0].Data[0])
	assert.Equal(t, 2, s.Hyperparams["features"])
}

func TestBaseEstimatorLifecycle(t *testing.T) {
	var e BaseEstimator
	assert.False(t, e.IsFitted())

	e.SetFitted()
	assert.True(t, e.IsFitted())

	e.Reset()
	assert.False(t, e.IsFitted())
}
