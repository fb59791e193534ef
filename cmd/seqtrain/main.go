// Command seqtrain trains a multi-label classifier from paired .npy arrays,
// reducing the learning rate on validation plateaus and checkpointing every
// epoch.
package main

import (
	"flag"
	"os"

	"github.com/mlkit-go/seqtrain/checkpoint"
	"github.com/mlkit-go/seqtrain/dataset"
	"github.com/mlkit-go/seqtrain/nn"
	"github.com/mlkit-go/seqtrain/optim"
	"github.com/mlkit-go/seqtrain/pkg/errors"
	"github.com/mlkit-go/seqtrain/pkg/log"
	"github.com/mlkit-go/seqtrain/preprocessing"
	"github.com/mlkit-go/seqtrain/report"
	"github.com/mlkit-go/seqtrain/train"
)

func main() {
	defaults := train.DefaultConfig()

	batchSize := flag.Int("batch-size", defaults.BatchSize, "training batch size")
	validBatchSize := flag.Int("valid-batch-size", defaults.ValidBatchSize, "validation batch size")
	epochs := flag.Int("epochs", defaults.Epochs, "number of epochs to train for")
	lr := flag.Float64("lr", defaults.LearningRate, "learning rate")
	l2 := flag.Float64("l2", defaults.WeightDecay, "L2 (weight decay) rate")
	patience := flag.Int("patience", defaults.Patience, "reduce-LR-on-plateau patience")
	warmStart := flag.String("warm-start", "", "path to a checkpoint to warm-start from")
	device := flag.String("device", string(defaults.Device), "computation device (cpu)")
	hidden := flag.Int("hidden", 128, "hidden layer width")

	xTrain := flag.String("x-train", "./data/X_train.npy", "path to training inputs (.npy)")
	yTrain := flag.String("y-train", "./data/y_train.npy", "path to training targets (.npy)")
	xValid := flag.String("x-valid", "./data/X_valid.npy", "path to validation inputs (.npy)")
	yValid := flag.String("y-valid", "./data/y_valid.npy", "path to validation targets (.npy)")

	standardize := flag.Bool("standardize", false, "standardize inputs using training-split statistics")
	workers := flag.Int("workers", defaults.Workers, "worker goroutines for batch assembly")
	checkpointDir := flag.String("checkpoint-dir", defaults.CheckpointDir, "where to save model checkpoints")
	seed := flag.Int64("seed", defaults.Seed, "seed for reproducibility")

	env := flag.String("env", "seqtrain", "run name used by reporters")
	plotDir := flag.String("plot-dir", "", "render metric charts into this directory (disabled when empty)")
	metricsDB := flag.String("metrics-db", "", "append metrics to this SQLite database (disabled when empty)")
	logLevel := flag.String("log-level", "info", "log level (debug|info|warn|error)")
	flag.Parse()

	log.SetupLogger(*logLevel)
	logger := log.GetLoggerWithName("cmd.seqtrain")

	cfg := defaults
	cfg.BatchSize = *batchSize
	cfg.ValidBatchSize = *validBatchSize
	cfg.Epochs = *epochs
	cfg.LearningRate = *lr
	cfg.WeightDecay = *l2
	cfg.Patience = *patience
	cfg.WarmStart = *warmStart
	cfg.Device = train.Device(*device)
	cfg.Workers = *workers
	cfg.CheckpointDir = *checkpointDir
	cfg.Seed = *seed

	if err := run(cfg, *hidden, *standardize, *xTrain, *yTrain, *xValid, *yValid, *env, *plotDir, *metricsDB, logger); err != nil {
		logger.Error("training failed", log.ErrAttrKey, err)
		os.Exit(1)
	}
}

func run(cfg train.Config, hidden int, standardize bool, xTrain, yTrain, xValid, yValid, env, plotDir, metricsDB string, logger log.Logger) error {
	dev, err := train.SetupDevice(cfg.Device)
	if err != nil {
		return err
	}
	cfg.Device = dev
	logger.Info("device selected", log.DeviceKey, string(dev))

	trainDS, validDS, err := loadSplits(standardize, xTrain, yTrain, xValid, yValid)
	if err != nil {
		return err
	}
	if trainDS.Features() != validDS.Features() {
		return errors.NewDimensionError("run", trainDS.Features(), validDS.Features(), 1)
	}
	if trainDS.Labels() != validDS.Labels() {
		return errors.NewDimensionError("run", trainDS.Labels(), validDS.Labels(), 1)
	}
	logger.Info("datasets loaded",
		log.SamplesKey, trainDS.Len(),
		log.FeaturesKey, trainDS.Features(),
		log.LabelsKey, trainDS.Labels(),
		"valid_samples", validDS.Len(),
	)

	// Both loaders draw their epoch permutations from the single
	// shuffle generator owned by this run.
	shuffleRNG := cfg.ShuffleRNG()
	trainLoader, err := dataset.NewLoader(trainDS, cfg.BatchSize, cfg.Workers, true, shuffleRNG)
	if err != nil {
		return err
	}
	validLoader, err := dataset.NewLoader(validDS, cfg.ValidBatchSize, cfg.Workers, true, shuffleRNG)
	if err != nil {
		return err
	}

	var model *nn.MLP
	if cfg.WarmStart != "" {
		snap, err := checkpoint.Load(cfg.WarmStart)
		if err != nil {
			return err
		}
		model, err = nn.FromSnapshot(snap)
		if err != nil {
			return err
		}
		if model.Features() != trainDS.Features() {
			return errors.NewDimensionError("warm_start", trainDS.Features(), model.Features(), 1)
		}
		if model.Labels() != trainDS.Labels() {
			return errors.NewDimensionError("warm_start", trainDS.Labels(), model.Labels(), 1)
		}
		logger.Info("warm start", log.CheckpointPathKey, cfg.WarmStart)
	} else {
		model, err = nn.NewMLP(trainDS.Features(), hidden, trainDS.Labels(), cfg.InitRNG())
		if err != nil {
			return err
		}
	}

	adamCfg := optim.DefaultAdamConfig()
	adamCfg.LearningRate = cfg.LearningRate
	adamCfg.WeightDecay = cfg.WeightDecay
	optimizer := optim.NewAdam(model.Parameters(), adamCfg)

	store, err := checkpoint.NewStore(cfg.CheckpointDir)
	if err != nil {
		return err
	}

	var reporters []train.Reporter
	if plotDir != "" {
		pr, err := report.NewPlotReporter(plotDir, env)
		if err != nil {
			return err
		}
		reporters = append(reporters, pr)
	}
	if metricsDB != "" {
		sr, err := report.NewSQLiteReporter(metricsDB, env)
		if err != nil {
			return err
		}
		reporters = append(reporters, sr)
	}
	var reporter train.Reporter
	if len(reporters) > 0 {
		reporter = report.NewMultiReporter(reporters...)
	}

	trainer, err := train.NewTrainer(cfg, model, nn.NewBCEWithLogits(), optimizer, trainLoader, validLoader, store, reporter)
	if err != nil {
		return err
	}
	return trainer.Fit()
}

// loadSplits reads both .npy splits, optionally standardizing the inputs
// with statistics fitted on the training split only.
func loadSplits(standardize bool, xTrain, yTrain, xValid, yValid string) (*dataset.TensorDataset, *dataset.TensorDataset, error) {
	xTr, err := dataset.LoadMatrix(xTrain)
	if err != nil {
		return nil, nil, err
	}
	yTr, err := dataset.LoadMatrix(yTrain)
	if err != nil {
		return nil, nil, err
	}
	xVa, err := dataset.LoadMatrix(xValid)
	if err != nil {
		return nil, nil, err
	}
	yVa, err := dataset.LoadMatrix(yValid)
	if err != nil {
		return nil, nil, err
	}

	if standardize {
		scaler := preprocessing.NewStandardScaler()
		if xTr, err = scaler.FitTransform(xTr); err != nil {
			return nil, nil, err
		}
		if xVa, err = scaler.Transform(xVa); err != nil {
			return nil, nil, err
		}
	}

	trainDS, err := dataset.NewTensorDataset(xTr, yTr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "pairing %q with %q", xTrain, yTrain)
	}
	validDS, err := dataset.NewTensorDataset(xVa, yVa)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "pairing %q with %q", xValid, yValid)
	}
	return trainDS, validDS, nil
}
