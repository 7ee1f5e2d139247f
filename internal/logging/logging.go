package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process logger. Console output goes to stderr so envelope
// output on stdout stays machine-parseable.
func Setup(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}

	var logger zerolog.Logger
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		logger = zerolog.New(os.Stderr)
	} else {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger = zerolog.New(out)
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}

// Nop returns a disabled logger for tests and library callers that do not
// want output.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
