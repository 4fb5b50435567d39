package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger writing to standard error. Format "console" is human readable, anything else is JSON.
// All logs include the provided component field
func New(component, level, format string) zerolog.Logger {
	return NewWithWriter(os.Stderr, component, level, format)
}

func NewWithWriter(out io.Writer, component, level, format string) zerolog.Logger {
	if strings.ToLower(format) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(parsed).With().Timestamp().Str("component", component).Logger()
}
