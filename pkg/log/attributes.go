// Standard attribute keys for training telemetry. Using these keys keeps
// logs filterable across components; they follow a hierarchical naming
// convention ("data.samples", "train.loss").

package log

// Component and phase context.
const (
	// ComponentKey identifies which package emitted the record.
	ComponentKey = "component"

	// PhaseKey indicates the training lifecycle phase.
	// Values: "training", "validation", "checkpoint", "setup"
	PhaseKey = "phase"

	// DeviceKey records the computation device for the run.
	DeviceKey = "device"
)

// Data shape and batching.
const (
	// SamplesKey is the number of samples (rows) in a dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of input features per sample.
	FeaturesKey = "data.features"

	// LabelsKey is the multi-label target width per sample.
	LabelsKey = "data.labels"

	// BatchSizeKey is the configured batch size.
	BatchSizeKey = "data.batch_size"

	// BatchIndexKey is the 1-based batch index within an epoch.
	BatchIndexKey = "data.batch_index"

	// BatchCountKey is the number of batches per epoch.
	BatchCountKey = "data.batch_count"
)

// Training progress and metrics.
const (
	// EpochKey is the 1-based epoch index.
	EpochKey = "train.epoch"

	// LossKey is a mean objective value.
	LossKey = "metrics.loss"

	// AccuracyKey is exact-match validation accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// LearningRateKey is the optimizer's current learning rate.
	LearningRateKey = "hyperparams.learning_rate"

	// WeightDecayKey is the L2 penalty coefficient.
	WeightDecayKey = "hyperparams.weight_decay"

	// SeedKey is the run's random seed.
	SeedKey = "config.seed"

	// DurationMsKey is an operation's wall time in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Persistence.
const (
	// CheckpointPathKey is the artifact path written by the checkpoint store.
	CheckpointPathKey = "checkpoint.path"
)

// Standard phase values.
const (
	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseCheckpoint = "checkpoint"
	PhaseSetup      = "setup"
)
