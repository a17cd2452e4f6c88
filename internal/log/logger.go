package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the application logger. Development gets a console writer,
// production structured JSON.
func New(environment string) zerolog.Logger {
	var logger zerolog.Logger
	if environment == "production" {
		logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Str("env", environment).
			Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(output).With().
			Timestamp().
			Str("env", environment).
			Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return logger
}
