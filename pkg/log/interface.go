// Package log provides the structured logging interface used throughout LEAF.
//
// The interface is slog-compatible so that the evaluator, the providers and
// the renderer can be wired to different backends. The default backend is
// zerolog (see NewZerologLogger); SetupLogger configures log/slog for
// programs that prefer the standard handler chain.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ComponentKey, "evaluator",
//	    log.RunIDKey, runID,
//	)
//	logger.Info("Explanation started",
//	    log.OperationKey, log.OperationExplain,
//	    log.RepsKey, 50,
//	    log.FeaturesKey, 4,
//	)

package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key-value pairs. Error treats a leading
// error value specially and attaches it (with its stack trace when the
// backend supports it) to the record.
type Logger interface {
	// Debug logs a debug-level message, used for per-repetition progress.
	Debug(msg string, fields ...any)

	// Info logs an info-level message.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message, used for substituted degeneracies.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it is
	// attached as the record's error.
	//
	// Example:
	//   logger.Error("Repetition failed",
	//       err,
	//       log.RepKey, 12,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
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

// LoggerProvider defines an interface for creating and configuring loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
