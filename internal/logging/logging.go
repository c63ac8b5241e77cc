// Package logging wraps zerolog so the rest of the repo carries a
// single logging import. Log lines go to stderr; stdout stays free
// for command output and piped data.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger; callers use the zerolog API directly.
type Logger struct{ zerolog.Logger }

// New creates a logger at the given level. With pretty set, lines are
// human-readable console output; otherwise they are JSON.
func New(level string, pretty bool) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	var z zerolog.Logger
	if pretty {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		z = zerolog.New(out).With().Timestamp().Logger().Level(lvl)
	} else {
		z = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
	}
	return &Logger{z}
}

// Nop returns a logger that discards everything. Tests use it to keep
// output quiet.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
