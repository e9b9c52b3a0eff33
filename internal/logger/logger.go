// Package logger configures the application's structured logging. All
// components log JSON to stdout with a role field identifying the process.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

func New(role string) zerolog.Logger {
	return zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()
}
