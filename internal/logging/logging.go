// Package logging configures the zerolog logger shared by all components.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a console logger writing to out
func New(out io.Writer, level string) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	if f, ok := out.(*os.File); !ok || f != os.Stderr {
		writer.NoColor = true
	}
	return zerolog.New(writer).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Setup creates the application logger on stderr
func Setup(level string) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	return New(os.Stderr, level)
}
