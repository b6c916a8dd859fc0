package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"hooklog/internal/platform/config"
)

// Init configures the global zerolog logger. File output falls back to stdout
// when the file cannot be opened.
func Init(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = New(output(cfg), cfg.Format).With().Str("service", "hooklog").Logger()
}

func New(w io.Writer, format string) zerolog.Logger {
	if format == "text" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func output(cfg config.LoggingConfig) io.Writer {
	if cfg.Output != "file" || cfg.FilePath == "" {
		return os.Stdout
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		log.Error().Err(err).Msg("failed to create log directory")
		return os.Stdout
	}

	file, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
	if err != nil {
		log.Error().Err(err).Msg("failed to open log file")
		return os.Stdout
	}
	return file
}
