package bootstrap

import (
	"log/slog"
	"os"

	"go.uber.org/fx"

	"tourbook/internal/pkg/config"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

// NewLogger builds the process-wide JSON logger at the configured level and
// installs it as the slog default so package-level logging follows it.
func NewLogger(cfg config.Config) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func logLevel(name string) slog.Level {
	switch name {
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
