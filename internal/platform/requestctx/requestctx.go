// Package requestctx carries per-request values that cross package
// boundaries, and decorates slog so context-aware log calls pick them up.
package requestctx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(ctxKey{}).(string)
	return value
}

// LogHandler adds a requestId attribute to records logged with a context
// that carries one.
type LogHandler struct {
	slog.Handler
}

func NewLogHandler(next slog.Handler) *LogHandler {
	return &LogHandler{Handler: next}
}

func (h *LogHandler) Handle(ctx context.Context, rec slog.Record) error {
	if id := GetRequestID(ctx); id != "" {
		rec.AddAttrs(slog.String("requestId", id))
	}
	return h.Handler.Handle(ctx, rec)
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{Handler: h.Handler.WithGroup(name)}
}
