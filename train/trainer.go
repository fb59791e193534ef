package train

import (
	"time"

	"github.com/mlkit-go/seqtrain/metrics"
	"github.com/mlkit-go/seqtrain/pkg/errors"
	"github.com/mlkit-go/seqtrain/pkg/log"
)

// Trainer drives the epoch loop. A single goroutine runs training,
// validation, scheduling, checkpointing and reporting in strict sequence;
// the model is mutated only by the training step.
type Trainer struct {
	cfg Config

	model     Model
	objective Objective
	optimizer Optimizer
	trainSet  BatchSource
	validSet  BatchSource
	scheduler *ReduceLROnPlateau
	store     CheckpointStore
	reporter  Reporter

	logger log.Logger
}

// NewTrainer validates the configuration and wires the collaborators. A nil
// reporter is replaced with a no-op; every other collaborator is required.
func NewTrainer(cfg Config, m Model, obj Objective, opt Optimizer, trainSet, validSet BatchSource, store CheckpointStore, reporter Reporter) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.NewConfigError("model", "must not be nil", nil)
	}
	if obj == nil {
		return nil, errors.NewConfigError("objective", "must not be nil", nil)
	}
	if opt == nil {
		return nil, errors.NewConfigError("optimizer", "must not be nil", nil)
	}
	if trainSet == nil || validSet == nil {
		return nil, errors.NewConfigError("dataset", "train and validation sources must not be nil", nil)
	}
	if store == nil {
		return nil, errors.NewConfigError("checkpoint_store", "must not be nil", nil)
	}
	if reporter == nil {
		reporter = NopReporter{}
	}

	return &Trainer{
		cfg:       cfg,
		model:     m,
		objective: obj,
		optimizer: opt,
		trainSet:  trainSet,
		validSet:  validSet,
		scheduler: NewReduceLROnPlateau(opt.LearningRate(), cfg.ReductionFactor, cfg.Patience, cfg.ImprovementThreshold),
		store:     store,
		reporter:  reporter,
		logger:    log.GetLoggerWithName("train.trainer"),
	}, nil
}

// Scheduler exposes the plateau scheduler state, mainly for inspection.
func (t *Trainer) Scheduler() *ReduceLROnPlateau {
	return t.scheduler
}

// Fit runs the configured number of epochs. Each round: training step →
// validation step → plateau scheduler → checkpoint (unconditional) →
// reporter. There is no early stopping; termination is epoch-count driven.
// The first error aborts the run.
func (t *Trainer) Fit() (err error) {
	defer errors.Recover(&err, "Trainer.Fit")

	t.logger.Info("training started",
		log.DeviceKey, string(t.cfg.Device),
		log.SeedKey, t.cfg.Seed,
		log.BatchSizeKey, t.cfg.BatchSize,
		log.LearningRateKey, t.optimizer.LearningRate(),
		log.WeightDecayKey, t.cfg.WeightDecay,
		"epochs", t.cfg.Epochs,
	)

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		start := time.Now()

		trainLoss, err := t.trainEpoch(epoch)
		if err != nil {
			return err
		}

		validLoss, validAcc, err := t.validate(epoch)
		if err != nil {
			return err
		}

		errors.WarnIfNotFinite("train_loss", trainLoss, epoch)
		errors.WarnIfNotFinite("valid_loss", validLoss, epoch)

		// The new rate applies from the next epoch's training step.
		if newRate := t.scheduler.Step(validLoss); newRate != t.optimizer.LearningRate() {
			t.logger.Info("learning rate reduced",
				log.EpochKey, epoch,
				log.LearningRateKey, newRate,
			)
			t.optimizer.SetLearningRate(newRate)
		}

		snap, err := t.model.Snapshot()
		if err != nil {
			return err
		}
		if _, err := t.store.Save(snap, epoch, validLoss); err != nil {
			return err
		}

		t.report(epoch, trainLoss, validLoss, validAcc)

		t.logger.Info("epoch completed",
			log.EpochKey, epoch,
			log.LossKey, trainLoss,
			"valid_loss", validLoss,
			log.AccuracyKey, validAcc,
			log.LearningRateKey, t.optimizer.LearningRate(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}

	if err := t.reporter.Close(); err != nil {
		t.logger.Warn("reporter close failed", log.ErrAttrKey, err)
	}
	return nil
}

// trainEpoch executes one full gradient-descent pass over the training set
// and returns the mean objective value across its batches, rounded to 4
// decimals. Model parameters are mutated; nothing else is.
func (t *Trainer) trainEpoch(epoch int) (float64, error) {
	t.trainSet.Reset()
	meter := metrics.NewMeter()

	for i := 1; ; i++ {
		x, y, ok := t.trainSet.Next()
		if !ok {
			break
		}

		t.optimizer.ZeroGrad()

		logits := t.model.Forward(x)
		loss, grad, err := t.objective.Loss(logits, y)
		if err != nil {
			return 0, err
		}
		meter.Add(loss)

		t.model.Backward(grad)
		t.optimizer.Step()

		if t.cfg.ProgressEvery > 0 && i%t.cfg.ProgressEvery == 0 {
			t.logger.Info("training progress",
				log.PhaseKey, log.PhaseTraining,
				log.EpochKey, epoch,
				log.BatchIndexKey, i,
				log.BatchCountKey, t.trainSet.Batches(),
				log.LossKey, metrics.Round4(loss),
			)
		}
	}

	mean, err := meter.Mean()
	if err != nil {
		return 0, errors.Wrap(err, "training set produced no batches")
	}
	return metrics.Round4(mean), nil
}

// validate executes one read-only pass over the validation set and returns
// (mean loss, mean exact-match accuracy), each rounded to 4 decimals. The
// model is not mutated: no gradients are applied.
func (t *Trainer) validate(epoch int) (float64, float64, error) {
	t.validSet.Reset()
	lossMeter := metrics.NewMeter()
	accMeter := metrics.NewMeter()

	for {
		x, y, ok := t.validSet.Next()
		if !ok {
			break
		}

		logits := t.model.Forward(x)

		loss, _, err := t.objective.Loss(logits, y)
		if err != nil {
			return 0, 0, err
		}
		lossMeter.Add(loss)

		acc, err := metrics.ExactMatchAccuracy(logits, y)
		if err != nil {
			return 0, 0, err
		}
		accMeter.Add(acc)
	}

	meanLoss, err := lossMeter.Mean()
	if err != nil {
		return 0, 0, errors.Wrap(err, "validation set produced no batches")
	}
	meanAcc, err := accMeter.Mean()
	if err != nil {
		return 0, 0, err
	}

	return metrics.Round4(meanLoss), metrics.Round4(meanAcc), nil
}

// report forwards the epoch's metrics at the loop's single reporting point.
// Reporter failures are logged and otherwise ignored: reporting is
// observational and must not alter the run.
func (t *Trainer) report(epoch int, trainLoss, validLoss, validAcc float64) {
	for _, obs := range []struct {
		series string
		value  float64
	}{
		{SeriesTrainLoss, trainLoss},
		{SeriesValidLoss, validLoss},
		{SeriesValidAccuracy, validAcc},
	} {
		if err := t.reporter.Log(epoch, obs.series, obs.value); err != nil {
			t.logger.Warn("reporter failed", log.ErrAttrKey, err, "series", obs.series)
		}
	}
}
