package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog.Logger. In production (GO_ENV)
// it emits JSON for the log pipeline; anywhere else it emits
// human-readable text. LOG_LEVEL selects the minimum level (debug, info,
// warn, error); unknown or missing values mean info.
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel()}
	if os.Getenv("GO_ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
