// Package checkpoint persists one model snapshot per epoch under a
// configured directory, named deterministically from the epoch index and
// validation loss.
package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlkit-go/seqtrain/core/model"
	"github.com/mlkit-go/seqtrain/metrics"
	"github.com/mlkit-go/seqtrain/pkg/errors"
	"github.com/mlkit-go/seqtrain/pkg/log"
)

const defaultPrefix = "seqtrain"

// Store writes checkpoint artifacts. Each Save produces a distinct file;
// the store never deletes or rewrites prior artifacts.
type Store struct {
	dir    string
	prefix string
	logger log.Logger
}

// NewStore creates the checkpoint directory if absent (pre-existence is not
// an error) and returns a store writing into it.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.NewConfigError("checkpoint_dir", "must not be empty", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewPersistenceError("NewStore", dir, err)
	}
	return &Store{
		dir:    dir,
		prefix: defaultPrefix,
		logger: log.GetLoggerWithName("checkpoint.store"),
	}, nil
}

// Path returns the artifact path for an epoch and validation loss. The loss
// is rounded to 4 decimals before being embedded, so the name matches the
// reported metric exactly.
func (s *Store) Path(epoch int, validLoss float64) string {
	name := fmt.Sprintf("%s-epoch-%d-loss-%.4f.json", s.prefix, epoch, metrics.Round4(validLoss))
	return filepath.Join(s.dir, name)
}

// Save persists a complete snapshot for the epoch. The write is a single
// atomic artifact (temp file + rename); any I/O failure is returned and is
// fatal to the run, since a silently missing epoch would break downstream
// best-model selection.
func (s *Store) Save(snap *model.Snapshot, epoch int, validLoss float64) (string, error) {
	if snap.Metadata == nil {
		snap.Metadata = make(map[string]interface{})
	}
	snap.Metadata["epoch"] = epoch
	snap.Metadata["valid_loss"] = metrics.Round4(validLoss)

	path := s.Path(epoch, validLoss)
	if err := model.WriteSnapshot(snap, path); err != nil {
		return "", errors.NewPersistenceError("Store.Save", path, err)
	}

	s.logger.Info("checkpoint saved",
		log.PhaseKey, log.PhaseCheckpoint,
		log.EpochKey, epoch,
		log.LossKey, metrics.Round4(validLoss),
		log.CheckpointPathKey, path,
	)
	return path, nil
}

// Load reads a snapshot artifact, typically for a warm start.
func Load(path string) (*model.Snapshot, error) {
	snap, err := model.ReadSnapshot(path)
	if err != nil {
		return nil, errors.NewPersistenceError("Load", path, err)
	}
	return snap, nil
}
