package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// SetupLogger installs a Cloud Logging JSON slog logger writing to w as the
// slog default. Error attributes carrying cockroachdb/errors are expanded
// with their stack trace by ErrFmtHandler.
func SetupLogger(w io.Writer, loglevel string) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(NewCloudHandler(w, level)))
	return nil
}

// NewCloudHandler は Cloud Logging 形式の JSON ハンドラを ErrFmtHandler で包んで返す
func NewCloudHandler(w io.Writer, level slog.Level) slog.Handler {
	ops := slog.HandlerOptions{
		AddSource:   true,
		Level:       level,
		ReplaceAttr: cloudLoggingAttr,
	}
	return WrapByErrFmtHandler(slog.NewJSONHandler(w, &ops))
}

// cloudLoggingAttr renames the builtin keys to the Cloud Logging ones.
func cloudLoggingAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.LevelKey:
		attr.Key = "severity"
	case slog.MessageKey:
		attr.Key = "message"
	case slog.SourceKey:
		attr.Key = "logging.googleapis.com/sourceLocation"
	}
	return attr
}

// ToLogLevel parses a textual level ("debug", "info", "warn", "error").
// Case is ignored and "warning" is accepted as "warn".
func ToLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
