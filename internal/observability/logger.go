package observability

import (
	"io"
	"log/slog"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/weatherwise-risk/internal/config"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "weatherwise-risk")
	slog.SetDefault(logger)
	return logger
}

// NewCommandLogger builds a text logger on w for one-shot CLI commands, so
// results written to stdout stay machine-readable. Unknown levels mean warn.
func NewCommandLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if cfg.LogLevel != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(cfg.LogLevel)); err == nil {
			level = parsed
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
