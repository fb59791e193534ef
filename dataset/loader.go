package dataset

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/mlkit-go/seqtrain/core/parallel"
	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// Loader serves a dataset as a restartable sequence of batches. Reset starts
// a new epoch: when shuffling is on, the sample order is permuted freshly
// from the loader's own RNG. Worker goroutines only parallelize row copying
// inside one batch; they never reorder samples within a yielded batch, so
// batch composition is identical for any worker count.
//
// Loader is driven from a single goroutine; it is not safe for concurrent
// use.
type Loader struct {
	ds        *TensorDataset
	batchSize int
	workers   int
	shuffle   bool
	rng       *rand.Rand

	indices  []int
	position int
}

// NewLoader creates a loader. rng may be nil when shuffle is false.
func NewLoader(ds *TensorDataset, batchSize, workers int, shuffle bool, rng *rand.Rand) (*Loader, error) {
	if batchSize <= 0 {
		return nil, errors.NewValueError("NewLoader", "batch size must be positive")
	}
	if shuffle && rng == nil {
		return nil, errors.NewValueError("NewLoader", "shuffling requires an RNG")
	}
	if workers <= 0 {
		workers = 1
	}

	indices := make([]int, ds.Len())
	for i := range indices {
		indices[i] = i
	}

	return &Loader{
		ds:        ds,
		batchSize: batchSize,
		workers:   workers,
		shuffle:   shuffle,
		rng:       rng,
		indices:   indices,
	}, nil
}

// Batches returns the number of batches per epoch (ceiling division; the
// final batch may be short).
func (l *Loader) Batches() int {
	return (l.ds.Len() + l.batchSize - 1) / l.batchSize
}

// Reset starts a new epoch, re-permuting the sample order when shuffling.
func (l *Loader) Reset() {
	l.position = 0
	if l.shuffle {
		l.rng.Shuffle(len(l.indices), func(i, j int) {
			l.indices[i], l.indices[j] = l.indices[j], l.indices[i]
		})
	}
}

// Next assembles and returns the next batch, or ok=false when the epoch is
// exhausted. Every sample appears exactly once per epoch.
func (l *Loader) Next() (x, y *mat.Dense, ok bool) {
	if l.position >= len(l.indices) {
		return nil, nil, false
	}

	end := l.position + l.batchSize
	if end > len(l.indices) {
		end = len(l.indices)
	}
	batch := l.indices[l.position:end]
	l.position = end

	n := len(batch)
	x = mat.NewDense(n, l.ds.Features(), nil)
	y = mat.NewDense(n, l.ds.Labels(), nil)

	parallel.ParallelizeWorkers(n, l.workers, func(start, endRow int) {
		for i := start; i < endRow; i++ {
			l.ds.Row(batch[i], x.RawRowView(i), y.RawRowView(i))
		}
	})

	return x, y, true
}
