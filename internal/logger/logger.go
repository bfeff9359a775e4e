// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Init installs a JSON slog handler as the default logger, with the level
// taken from the LOG_LEVEL environment variable (default info).
func Init() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	level, ok := levels[levelStr]
	if !ok {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", "level", level.String())
}
