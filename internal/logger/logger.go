package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a JSON logger on stdout at the given level ("debug", "info", ...).
// Unknown levels fall back to info.
func New(level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is New writing to w. Commands that speak a protocol on stdout
// log to stderr instead.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger.Level(ParseLevel(level))
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
