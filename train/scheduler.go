package train

import (
	"math"
)

// ReduceLROnPlateau reduces the learning rate when validation loss stops
// improving. State is {best loss, wait counter, current rate}; the rate is
// monotonically non-increasing and has no floor.
//
// Transition, once per epoch with the new validation loss L:
//   - L < best − threshold: best = L, wait = 0.
//   - otherwise: wait++; when wait exceeds patience, rate *= factor and
//     wait resets.
//
// The returned rate takes effect from the next epoch's training step; a
// reduction never retroactively affects the epoch that triggered it.
type ReduceLROnPlateau struct {
	patience  int
	factor    float64
	threshold float64

	best float64
	wait int
	rate float64
}

// NewReduceLROnPlateau creates a scheduler starting at initialRate with
// best = +Inf and a zero wait counter.
func NewReduceLROnPlateau(initialRate, factor float64, patience int, threshold float64) *ReduceLROnPlateau {
	return &ReduceLROnPlateau{
		patience:  patience,
		factor:    factor,
		threshold: threshold,
		best:      math.Inf(1),
		rate:      initialRate,
	}
}

// Step consumes one epoch's validation loss and returns the rate to use
// from the next epoch on.
func (s *ReduceLROnPlateau) Step(loss float64) float64 {
	if loss < s.best-s.threshold {
		s.best = loss
		s.wait = 0
		return s.rate
	}

	s.wait++
	if s.wait > s.patience {
		s.rate *= s.factor
		s.wait = 0
	}
	return s.rate
}

// Rate returns the current learning rate.
func (s *ReduceLROnPlateau) Rate() float64 {
	return s.rate
}

// Best returns the best validation loss seen so far.
func (s *ReduceLROnPlateau) Best() float64 {
	return s.best
}

// Wait returns the number of consecutive non-improving epochs.
func (s *ReduceLROnPlateau) Wait() int {
	return s.wait
}
