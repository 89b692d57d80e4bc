package utils

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger creates the application logger. Level comes from LOG_LEVEL and
// defaults to info.
func NewLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()
}
