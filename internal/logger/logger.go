package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the shared logger instance used across the scraper.
var Log zerolog.Logger

func init() {
	Init()
}

// Init configures the console logger. Level comes from LOG_LEVEL;
// unset means debug so UI-location misses stay visible during runs.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}

	Log = zerolog.New(output).With().Timestamp().Logger().Level(levelFromEnv())
}

func levelFromEnv() zerolog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.DebugLevel
	}
	return level
}
