// Package log provides a structured logging facade for seqtrain.
//
// It defines a minimal, slog-compatible interface so components log through
// one surface while the backend stays swappable. The default provider emits
// JSON via log/slog, wrapped by a handler that formats stack traces from
// cockroachdb/errors.
//
// Example:
//
//	logger := log.GetLoggerWithName("train.trainer")
//	logger.Info("epoch completed",
//	    log.EpochKey, 3,
//	    log.LossKey, 0.4312,
//	)
package log

import (
	"context"
)

// Logger is a structured logging interface compatible with Go's log/slog.
// Fields are alternating key-value pairs, as in slog.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// When the first field is an error, stack trace information is attached
	// by the error-formatting handler.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

// Standard logging levels.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers. It exists for dependency
// injection and for swapping in a capturing provider in tests.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers from this provider.
	SetLevel(level Level)
}
