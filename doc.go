// Package seqtrain is a training harness for multi-label sequence-feature
// classifiers. It trains a feed-forward network with binary cross-entropy on
// paired NumPy arrays, reduces the learning rate when the validation loss
// plateaus, and checkpoints the full model state after every epoch.
//
// # Quick start
//
// Train from .npy splits with the bundled command:
//
//	seqtrain -x-train data/X_train.npy -y-train data/y_train.npy \
//	         -x-valid data/X_valid.npy -y-valid data/y_valid.npy \
//	         -epochs 100 -batch-size 128 -lr 5e-4
//
// Or drive the loop from code:
//
//	model, _ := nn.NewMLP(features, 128, labels, cfg.InitRNG())
//	opt := optim.NewAdam(model.Parameters(), optim.DefaultAdamConfig())
//	trainer, _ := train.NewTrainer(cfg, model, nn.NewBCEWithLogits(), opt,
//	    trainLoader, validLoader, store, nil)
//	err := trainer.Fit()
//
// # Packages
//
//   - train: the epoch orchestration loop, plateau scheduler, and config
//   - nn: the MLP classifier, its layers, and the BCE-with-logits objective
//   - optim: the Adam optimizer
//   - dataset: .npy loading and shuffled batch iteration
//   - checkpoint: per-epoch snapshot artifacts and warm starts
//   - metrics: loss aggregation and exact-match accuracy
//   - report: chart, SQLite, and fan-out metric reporters
//   - preprocessing: feature standardization for the input arrays
//   - core/model: the versioned snapshot format and estimator state
//   - pkg/errors, pkg/log: structured errors, warnings, and logging
//
// Runs are reproducible: all randomness derives from the configured seed, and
// two runs with the same seed and data produce identical metrics and
// checkpoints.
package seqtrain
