// Package metrics provides epoch metric aggregation and the multi-label
// evaluation measures used during validation.
package metrics

import (
	"math"

	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// Meter accumulates per-batch scalar values into a running mean. The mean is
// sum-then-divide, so it is independent of accumulation order up to floating
// rounding.
type Meter struct {
	sum   float64
	count int
}

// NewMeter returns an empty meter.
func NewMeter() *Meter {
	return &Meter{}
}

// Add accumulates one scalar observation.
func (m *Meter) Add(v float64) {
	m.sum += v
	m.count++
}

// Count returns the number of accumulated observations.
func (m *Meter) Count() int {
	return m.count
}

// Sum returns the accumulated total.
func (m *Meter) Sum() float64 {
	return m.sum
}

// Mean returns the arithmetic mean of accumulated values, or an error when
// nothing was accumulated.
func (m *Meter) Mean() (float64, error) {
	if m.count == 0 {
		return 0, errors.NewValueError("Meter.Mean", "no values accumulated")
	}
	return m.sum / float64(m.count), nil
}

// Reset clears the meter for a new epoch.
func (m *Meter) Reset() {
	m.sum = 0
	m.count = 0
}

// Round4 rounds a value to 4 decimal digits, the reporting precision for all
// epoch metrics.
func Round4(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*10000) / 10000
}
