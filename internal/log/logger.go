package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // debug|info|warn|error (defaults to LOG_LEVEL or info)
	Format  string    // console|json
	Output  io.Writer // optional writer (defaults to os.Stderr)
	Service string    // attached to every entry

	// Optional rotating file; empty FilePath disables it.
	FilePath       string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the global logger exactly once. Later calls are no-ops.
func Configure(cfg Config) {
	once.Do(func() {
		base = build(cfg)
	})
}

func build(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	levelStr := cfg.Level
	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}
	if levelStr != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(levelStr)); err == nil {
			level = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	writers := []io.Writer{out}
	if cfg.FilePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    withDefault(cfg.FileMaxSizeMB, 20),
			MaxBackups: withDefault(cfg.FileMaxBackups, 3),
			MaxAge:     withDefault(cfg.FileMaxAgeDays, 7),
			Compress:   true,
		})
	}

	service := cfg.Service
	if service == "" {
		service = "yt-web-client"
	}

	return zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func logger() zerolog.Logger {
	Configure(Config{})
	return base
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str("component", component).Logger()
}
