package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the application logger. Development gets a compact colourized
// console; production drops colour and keeps full timestamps.
func New(environment string) zerolog.Logger {
	timeFormat := time.TimeOnly
	if environment == "production" {
		timeFormat = time.RFC3339
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: timeFormat,
		NoColor:    environment == "production",
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Str("env", environment).
		Logger()

	if environment != "production" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return logger
}
