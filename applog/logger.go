// Package applog builds the process-wide zerolog logger.
package applog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger tagged with the service name. Development
// environments log at debug level with colored output; production logs at
// info level without colors.
func New(service, environment string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	if environment == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return zerolog.New(output).With().
		Timestamp().
		Str("service", service).
		Str("env", environment).
		Logger()
}
