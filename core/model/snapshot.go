package model

import (
	"encoding/json"

	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// SnapshotVersion is the current snapshot format version. Loading rejects
// snapshots with a different version rather than guessing at their layout.
const SnapshotVersion = "1"

// TensorWeights holds one named parameter tensor in row-major order.
type TensorWeights struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// Snapshot is a complete, self-describing serialization of a model's
// parameters. It carries an architecture tag and a format version so that
// warm starts validate what they are restoring instead of dispatching on
// arbitrary serialized objects.
type Snapshot struct {
	// Arch identifies the model architecture, e.g. "mlp-classifier".
	Arch string `json:"arch"`

	// Version is the snapshot format version.
	Version string `json:"version"`

	// Tensors are the model's parameter tensors in declaration order.
	Tensors []TensorWeights `json:"tensors"`

	// Hyperparams records architecture hyperparameters (layer sizes).
	Hyperparams map[string]int `json:"hyperparams,omitempty"`

	// Metadata carries run context (epoch, validation loss) for humans and
	// tooling; it is not consulted when restoring parameters.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ToJSON serializes the snapshot.
func (s *Snapshot) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FromJSON deserializes into the snapshot.
func (s *Snapshot) FromJSON(data []byte) error {
	return json.Unmarshal(data, s)
}

// Validate checks structural invariants of the snapshot.
func (s *Snapshot) Validate() error {
	if s.Arch == "" {
		return errors.New("snapshot: arch tag is required")
	}
	if s.Version == "" {
		return errors.New("snapshot: version is required")
	}
	for _, t := range s.Tensors {
		n := 1
		for _, d := range t.Shape {
			n *= d
		}
		if n != len(t.Data) {
			return errors.Newf("snapshot: tensor %q shape %v does not match %d values", t.Name, t.Shape, len(t.Data))
		}
	}
	return nil
}

// CheckCompat verifies the snapshot can restore a model with the given
// architecture tag.
func (s *Snapshot) CheckCompat(arch string) error {
	if s.Version != SnapshotVersion {
		return errors.NewSnapshotMismatchError("version", SnapshotVersion, s.Version)
	}
	if s.Arch != arch {
		return errors.NewSnapshotMismatchError("arch", arch, s.Arch)
	}
	return nil
}

// Clone makes a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	clone := &Snapshot{
		Arch:    s.Arch,
		Version: s.Version,
		Tensors: make([]TensorWeights, len(s.Tensors)),
	}
	for i, t := range s.Tensors {
		ct := TensorWeights{
			Name:  t.Name,
			Shape: append([]int(nil), t.Shape...),
			Data:  append([]float64(nil), t.Data...),
		}
		clone.Tensors[i] = ct
	}
	if s.Hyperparams != nil {
		clone.Hyperparams = make(map[string]int, len(s.Hyperparams))
		for k, v := range s.Hyperparams {
			clone.Hyperparams[k] = v
		}
	}
	if s.Metadata != nil {
		clone.Metadata = make(map[string]interface{}, len(s.Metadata))
		for k, v := range s.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}
