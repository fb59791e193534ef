// Package errors provides structured error handling and the warning system
// for seqtrain. Errors carry stack traces via cockroachdb/errors; warnings
// are routed through a process-wide handler and marshal structured fields
// for zerolog sinks.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// Default handler logs to standard error.
		log.Printf("seqtrain-warning: %v\n", w)
	}
	// zerolog warn sink, injected lazily to avoid an import cycle.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the warning handler for the whole library. Use it
// to silence or redirect warnings such as NumericalInstabilityWarning.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. The zerolog sink takes precedence when installed;
// otherwise the plain handler runs.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// NumericalInstabilityWarning is raised when an aggregated training value
// (loss, gradient norm) turns non-finite. Training continues; the warning
// exists so an operator can notice a diverging run.
type NumericalInstabilityWarning struct {
	Operation string
	Value     float64
	Epoch     int
}

func (w *NumericalInstabilityWarning) Error() string {
	return fmt.Sprintf("non-finite value %g in %s at epoch %d", w.Value, w.Operation, w.Epoch)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *NumericalInstabilityWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Operation).
		Float64("value", w.Value).
		Int("epoch", w.Epoch).
		Str("type", "NumericalInstabilityWarning")
}

// NewNumericalInstabilityWarning creates a new NumericalInstabilityWarning.
func NewNumericalInstabilityWarning(operation string, value float64, epoch int) *NumericalInstabilityWarning {
	return &NumericalInstabilityWarning{Operation: operation, Value: value, Epoch: epoch}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict or Snapshot is called on a model
// that has not been fitted or initialized.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("seqtrain: %s: model is not initialized. Initialize or warm-start it before calling %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when input data dimensions differ from what a
// component expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows/samples, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("seqtrain: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ConfigError is returned when the training configuration is invalid or
// requests something the build cannot provide (an unavailable device, a
// non-positive batch size). It is always raised before the first epoch.
type ConfigError struct {
	Option string
	Reason string
	Value  interface{}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("seqtrain: invalid configuration for '%s': %s (got: %v)", e.Option, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ConfigError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("option", e.Option).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigError")
}

// NewConfigError creates a ConfigError with a stack trace attached.
func NewConfigError(option, reason string, value interface{}) error {
	err := &ConfigError{Option: option, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is malformed or out of range.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("seqtrain: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// DataError is returned when a dataset file is missing or malformed, or when
// input and target arrays disagree on sample count. Fatal at load time.
type DataError struct {
	Op   string
	Path string
	Err  error
}

func (e *DataError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("seqtrain: %s: bad dataset %q: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("seqtrain: %s: bad dataset: %v", e.Op, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a DataError with a stack trace attached.
func NewDataError(op, path string, err error) error {
	dataErr := &DataError{Op: op, Path: path, Err: err}
	return errors.WithStack(dataErr)
}

// PersistenceError is returned when writing or reading a checkpoint fails.
// A write failure is fatal to the run; prior artifacts stay valid.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("seqtrain: %s: checkpoint %q: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a PersistenceError with a stack trace attached.
func NewPersistenceError(op, path string, err error) error {
	pErr := &PersistenceError{Op: op, Path: path, Err: err}
	return errors.WithStack(pErr)
}

// SnapshotMismatchError is returned when a warm-start snapshot carries an
// architecture or version tag the model does not accept.
type SnapshotMismatchError struct {
	Field    string
	Expected string
	Got      string
}

func (e *SnapshotMismatchError) Error() string {
	return fmt.Sprintf("seqtrain: snapshot %s mismatch: expected %q, got %q", e.Field, e.Expected, e.Got)
}

// NewSnapshotMismatchError creates a SnapshotMismatchError with a stack trace attached.
func NewSnapshotMismatchError(field, expected, got string) error {
	err := &SnapshotMismatchError{Field: field, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}
