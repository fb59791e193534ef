package model

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// WriteSnapshot persists a snapshot to path as a single atomic artifact.
// The data is written to a temporary file in the same directory and renamed
// into place, so a killed process never leaves a truncated snapshot behind.
func WriteSnapshot(s *Snapshot, path string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := s.ToJSON()
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to write snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to close snapshot file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to finalize snapshot")
	}
	return nil
}

// ReadSnapshot loads and validates a snapshot from path.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot")
	}
	return decodeSnapshot(data)
}

// ReadSnapshotFrom loads and validates a snapshot from r.
func ReadSnapshotFrom(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot")
	}
	return decodeSnapshot(data)
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := s.FromJSON(data); err != nil {
		return nil, errors.Wrap(err, "failed to decode snapshot")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
