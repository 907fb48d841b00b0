package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"lol-runesync/internal/config"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds the process logger. The terminal UI owns stdout, so outside
// headless mode the log goes to cfg.LogFile instead.
func New(cfg *config.Config, lc fx.Lifecycle) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if !cfg.Headless {
		f, err := openLogFile(cfg.LogFile)
		if err != nil {
			return zerolog.Nop(), err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return f.Close()
			},
		})
		out = f
	}

	logger := SetLevel(out, level)

	if cfg.EnvFileMissing {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}
	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("log_level", level.String()).
		Str("mode", cfg.Mode).
		Str("role", cfg.Role).
		Bool("headless", cfg.Headless).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("configuration loaded")

	return logger, nil
}

func SetLevel(out io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(out).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

var Module = fx.Provide(New)
