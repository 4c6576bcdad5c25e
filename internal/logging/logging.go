// Package logging provides context-aware logging utilities.
package logging

import (
	"context"
	"log/slog"
	"os"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Setup installs a JSON handler at the given level as the default logger and
// returns it. Unknown level strings fall back to info.
func Setup(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// Logger returns a logger annotated with the request id from the context,
// when one is present.
func Logger(ctx context.Context) *slog.Logger {
	if id := chimiddleware.GetReqID(ctx); id != "" {
		return slog.Default().With("request_id", id)
	}
	return slog.Default()
}
