package logging

import (
	"io"
	"log/slog"
	"strings"

	"hrportal/internal/platform/requestctx"
)

// Setup installs a JSON slog handler as the process default and returns it.
// Records logged with a request context carry its requestId.
func Setup(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	logger := slog.New(requestctx.NewLogHandler(handler))
	slog.SetDefault(logger)
	return logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
