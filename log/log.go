package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger for application-wide use.
type Logger struct {
	zerolog.Logger
}

// New creates a logger at the given level. Unknown levels fall back to info.
// With pretty enabled, output goes through the human-readable console writer.
func New(level string, pretty bool) Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	logger = logger.Level(lvl).With().Timestamp().Logger()
	return Logger{logger}
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() Logger {
	return Logger{zerolog.Nop()}
}
