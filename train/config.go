package train

import (
	"math/rand"

	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// Config is the immutable training configuration, constructed once at
// startup and passed into the Trainer. There is no ambient global state:
// everything the loop needs is here or injected as a collaborator.
type Config struct {
	// Batching
	BatchSize      int `json:"batch_size"`
	ValidBatchSize int `json:"valid_batch_size"`
	Workers        int `json:"workers"`

	// Optimization
	Epochs       int     `json:"epochs"`
	LearningRate float64 `json:"learning_rate"`
	WeightDecay  float64 `json:"weight_decay"`

	// Plateau scheduling
	Patience        int     `json:"patience"`
	ReductionFactor float64 `json:"reduction_factor"`
	// ImprovementThreshold is the negligible margin below the best loss a
	// new loss must clear to count as an improvement.
	ImprovementThreshold float64 `json:"improvement_threshold"`

	// Run setup
	Device        Device `json:"device"`
	Seed          int64  `json:"seed"`
	WarmStart     string `json:"warm_start"`
	CheckpointDir string `json:"checkpoint_dir"`

	// ProgressEvery is the batch interval for advisory progress logs during
	// the training step.
	ProgressEvery int `json:"progress_every"`
}

// DefaultConfig returns the canonical settings.
func DefaultConfig() Config {
	return Config{
		BatchSize:            128,
		ValidBatchSize:       32,
		Workers:              4,
		Epochs:               100,
		LearningRate:         5e-4,
		WeightDecay:          1e-6,
		Patience:             5,
		ReductionFactor:      0.1,
		ImprovementThreshold: 1e-8,
		Device:               DeviceCPU,
		Seed:                 42,
		CheckpointDir:        "checkpoints",
		ProgressEvery:        10000,
	}
}

// Validate checks the configuration before any epoch runs. All violations
// are configuration errors: fatal, with no partial state created.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return errors.NewConfigError("batch_size", "must be positive", c.BatchSize)
	}
	if c.ValidBatchSize <= 0 {
		return errors.NewConfigError("valid_batch_size", "must be positive", c.ValidBatchSize)
	}
	if c.Epochs <= 0 {
		return errors.NewConfigError("epochs", "must be positive", c.Epochs)
	}
	if c.LearningRate <= 0 {
		return errors.NewConfigError("learning_rate", "must be positive", c.LearningRate)
	}
	if c.WeightDecay < 0 {
		return errors.NewConfigError("weight_decay", "must be non-negative", c.WeightDecay)
	}
	if c.Patience < 0 {
		return errors.NewConfigError("patience", "must be non-negative", c.Patience)
	}
	if c.ReductionFactor <= 0 || c.ReductionFactor >= 1 {
		return errors.NewConfigError("reduction_factor", "must be in (0, 1)", c.ReductionFactor)
	}
	if c.ImprovementThreshold < 0 {
		return errors.NewConfigError("improvement_threshold", "must be non-negative", c.ImprovementThreshold)
	}
	if c.CheckpointDir == "" {
		return errors.NewConfigError("checkpoint_dir", "must not be empty", c.CheckpointDir)
	}
	if _, err := SetupDevice(c.Device); err != nil {
		return err
	}
	return nil
}

// ShuffleRNG returns the sample-shuffling generator derived from the run
// seed. The orchestration owns both generators; nothing seeds process-wide
// state.
func (c *Config) ShuffleRNG() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed))
}

// InitRNG returns the parameter-initialization generator derived from the
// run seed. It is distinct from the shuffle generator so that consuming
// initialization draws never perturbs the epoch shuffle sequence.
func (c *Config) InitRNG() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed + 1))
}
