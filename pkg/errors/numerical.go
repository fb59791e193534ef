package errors

import (
	"math"
)

// CheckScalar checks a single scalar value for numerical instability and
// returns an error when the value is NaN or infinite.
func CheckScalar(operation string, value float64, epoch int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return WithStack(NewNumericalInstabilityWarning(operation, value, epoch))
	}
	return nil
}

// WarnIfNotFinite emits a NumericalInstabilityWarning when value is NaN or
// infinite. The run is not interrupted; non-finite losses propagate into
// aggregated metrics as-is.
func WarnIfNotFinite(operation string, value float64, epoch int) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		Warn(NewNumericalInstabilityWarning(operation, value, epoch))
	}
}

// CheckValues checks a slice of values and returns an error on the first
// non-finite entry.
func CheckValues(operation string, values []float64, epoch int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return WithStack(NewNumericalInstabilityWarning(operation, v, epoch))
		}
	}
	return nil
}

// SafeDivide divides with protection against a zero denominator.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
