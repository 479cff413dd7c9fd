package log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// ZerologLogger implements Logger on top of github.com/rs/zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a JSON zerolog logger writing to w at the given
// minimum level. Pass a zerolog.ConsoleWriter for human-readable output.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// NewConsoleLogger creates a zerolog logger with pretty console output on stderr.
func NewConsoleLogger(level Level) *ZerologLogger {
	return NewZerologLogger(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

// Debug implements Logger.Debug.
func (l *ZerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info implements Logger.Info.
func (l *ZerologLogger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn implements Logger.Warn.
func (l *ZerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error implements Logger.Error. A leading error field is attached with Err.
func (l *ZerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if stacktrace := extractStacktrace(err); stacktrace != "" {
				ev = ev.Str(StacktraceKey, stacktrace)
			}
			fields = fields[1:]
		}
	}
	l.emit(ev, msg, fields)
}

// With implements Logger.With.
func (l *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{zl: l.zl.With().Fields(normalizeFields(fields)).Logger()}
}

// Enabled implements Logger.Enabled.
func (l *ZerologLogger) Enabled(ctx context.Context, level Level) bool {
	return l.zl.GetLevel() <= toZerologLevel(level)
}

// Zerolog exposes the underlying zerolog.Logger.
func (l *ZerologLogger) Zerolog() zerolog.Logger {
	return l.zl
}

// InstallWarnings routes pkg/errors warnings to this logger. Warnings that
// implement zerolog.LogObjectMarshaler are embedded as structured fields.
func (l *ZerologLogger) InstallWarnings() {
	errors.SetZerologWarnFunc(func(w error) {
		ev := l.zl.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}

func (l *ZerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	if len(fields) > 0 {
		ev = ev.Fields(normalizeFields(fields))
	}
	ev.Msg(msg)
}

// normalizeFields converts error values to strings so that they are
// rendered by message rather than as empty JSON objects.
func normalizeFields(fields []any) []interface{} {
	out := make([]interface{}, len(fields))
	for i, f := range fields {
		if err, ok := f.(error); ok && i%2 == 1 {
			out[i] = err.Error()
			continue
		}
		out[i] = f
	}
	return out
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewZerologLogger(os.Stderr, LevelWarn)
)

// GetLogger returns the package-level default logger (zerolog, stderr, warn).
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the package-level default logger.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
