// Package xlog wires the zerolog.Logger shared across collectivesmq
// packages. Every package takes an injected zerolog.Logger rather than
// reaching for a global, so tests and cmd/collectivesctl can each pick
// their own sink.
package xlog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level is a string level selector, mirroring the LogLevel convention
// used elsewhere in the corpus so it reads naturally from a flag or
// env var without importing zerolog at the call site.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the console rendering of a Logger.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures a Logger built with New.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// New builds a zerolog.Logger from cfg. A zero Config yields an
// info-level JSON logger writing to stdout.
func New(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	out := cfg.Output
	if cfg.Format == FormatText {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	switch cfg.Level {
	case LevelDebug:
		logger = logger.Level(zerolog.DebugLevel)
	case LevelWarn:
		logger = logger.Level(zerolog.WarnLevel)
	case LevelError:
		logger = logger.Level(zerolog.ErrorLevel)
	default:
		logger = logger.Level(zerolog.InfoLevel)
	}
	return logger
}

// Nop returns a logger that discards everything, the default for
// packages constructed without an explicit logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
