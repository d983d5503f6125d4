package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// parseString reads key from the environment, keeping def when unset or empty
func parseString(logger zerolog.Logger, key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		logger.Debug().
			Str("key", key).
			Str("value", v).
			Str("source", "environment").
			Msg("using environment variable")
		return v
	}
	return def
}

// parseInt reads an integer from the environment; invalid values keep def
func parseInt(logger zerolog.Logger, key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("default", def).
			Msg("invalid integer in environment variable, using default")
		return def
	}
	logger.Debug().
		Str("key", key).
		Int("value", i).
		Str("source", "environment").
		Msg("using environment variable")
	return i
}

// parseDuration reads a Go duration ("5s") from the environment; invalid values keep def
func parseDuration(logger zerolog.Logger, key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Dur("default", def).
			Msg("invalid duration in environment variable, using default")
		return def
	}
	logger.Debug().
		Str("key", key).
		Dur("value", d).
		Str("source", "environment").
		Msg("using environment variable")
	return d
}
