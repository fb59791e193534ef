package report

import (
	"github.com/mlkit-go/seqtrain/pkg/errors"
	"github.com/mlkit-go/seqtrain/train"
)

// MultiReporter fans every observation out to several reporters.
type MultiReporter struct {
	reporters []train.Reporter
}

// NewMultiReporter combines reporters. With none it behaves as a no-op.
func NewMultiReporter(reporters ...train.Reporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

// Log forwards to every reporter, returning the first error after all have
// been attempted.
func (m *MultiReporter) Log(epoch int, series string, value float64) error {
	var first error
	for _, r := range m.reporters {
		if err := r.Log(epoch, series, value); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every reporter, returning the first error.
func (m *MultiReporter) Close() error {
	var first error
	for _, r := range m.reporters {
		if err := r.Close(); err != nil && first == nil {
			first = errors.Wrap(err, "reporter close")
		}
	}
	return first
}

var _ train.Reporter = (*MultiReporter)(nil)
