package log

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// ErrFmtHandler is a slog handler that expands errors built with
// cockroachdb/errors: the record gets a stacktrace attribute and the
// concrete error type.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps the standard slog handler.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var cause error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == ErrAttrKey {
			if err, ok := attr.Value.Any().(error); ok {
				cause = err
			}
			return false
		}
		return true
	})
	if cause != nil {
		if stacktrace := extractStacktrace(cause); stacktrace != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
		}
		r.AddAttrs(slog.String(ErrorTypeKey, fmt.Sprintf("%T", errors.UnwrapAll(cause))))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
