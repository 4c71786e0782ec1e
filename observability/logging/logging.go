package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup configures structured JSON logging for the process and returns the
// base logger. Every line carries the service name, and the environment when
// provided. The level can be overridden with LAUNCHPAD_LOG_LEVEL.
func Setup(service, env string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LAUNCHPAD_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With(slog.String("service", strings.TrimSpace(service)))
	if env = strings.TrimSpace(env); env != "" {
		logger = logger.With(slog.String("env", env))
	}
	slog.SetDefault(logger)
	return logger
}
