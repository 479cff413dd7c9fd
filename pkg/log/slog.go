package log

import (
	"context"
	"log/slog"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// SlogLogger implements Logger on top of log/slog. Combined with
// SetupLogger it produces Cloud Logging JSON with stack traces of
// cockroachdb/errors values expanded by ErrFmtHandler.
type SlogLogger struct {
	sl *slog.Logger
}

// NewSlogLogger wraps sl. A nil sl uses slog.Default().
func NewSlogLogger(sl *slog.Logger) *SlogLogger {
	if sl == nil {
		sl = slog.Default()
	}
	return &SlogLogger{sl: sl}
}

// Debug implements Logger.Debug.
func (l *SlogLogger) Debug(msg string, fields ...any) {
	l.sl.Debug(msg, fields...)
}

// Info implements Logger.Info.
func (l *SlogLogger) Info(msg string, fields ...any) {
	l.sl.Info(msg, fields...)
}

// Warn implements Logger.Warn.
func (l *SlogLogger) Warn(msg string, fields ...any) {
	l.sl.Warn(msg, fields...)
}

// Error implements Logger.Error. A leading error field becomes ErrAttr.
func (l *SlogLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{ErrAttr(err)}, fields[1:]...)
		}
	}
	l.sl.Error(msg, fields...)
}

// With implements Logger.With.
func (l *SlogLogger) With(fields ...any) Logger {
	return &SlogLogger{sl: l.sl.With(fields...)}
}

// Enabled implements Logger.Enabled.
func (l *SlogLogger) Enabled(ctx context.Context, level Level) bool {
	return l.sl.Enabled(ctx, slog.Level(level))
}

// InstallWarnings routes pkg/errors warnings to this logger.
func (l *SlogLogger) InstallWarnings() {
	errors.SetZerologWarnFunc(nil)
	errors.SetWarningHandler(func(w error) {
		l.sl.Warn(w.Error(), "type", warningType(w))
	})
}

func warningType(w error) string {
	switch w.(type) {
	case *errors.UndefinedMetricWarning:
		return "UndefinedMetricWarning"
	case *errors.DegenerateSurrogateWarning:
		return "DegenerateSurrogateWarning"
	case *errors.CovarianceFallbackWarning:
		return "CovarianceFallbackWarning"
	}
	return "Warning"
}
