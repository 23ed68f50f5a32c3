// Package logger builds the root zerolog logger for the service. All
// components derive child loggers from it rather than constructing their own.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates the root logger. format is "json" or "pretty"; level is one of
// zerolog's level names, defaulting to info when unknown.
func New(level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.New(os.Stdout)
	if format == "pretty" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return out.Level(lvl).
		With().
		Timestamp().
		Str("service", "autosphere-api").
		Logger()
}
