// Package cli holds the logging and flag helpers shared by the commands.
package cli

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const LogLevelEnv = "QUANTIK_LOG_LEVEL"

// GetEnv returns the environment value for key, or def when unset or empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func GetEnvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// NewLogger writes human-readable lines to w. An unknown level falls back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
