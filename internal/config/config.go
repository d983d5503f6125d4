package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-web-client/internal/log"
	"github.com/ytget/yt-web-client/internal/model"
)

// Defaults
const (
	DefaultServerURL       = "http://localhost:8000"
	DefaultPollInterval    = 2 * time.Second
	DefaultLinkNoticeDelay = 500 * time.Millisecond
	MinPollInterval        = 100 * time.Millisecond
)

// Environment variables
const (
	EnvConfigFile      = "YTWEB_CONFIG"
	EnvServerURL       = "YTWEB_SERVER_URL"
	EnvQuality         = "YTWEB_QUALITY"
	EnvPollInterval    = "YTWEB_POLL_INTERVAL"
	EnvMaxPollFailures = "YTWEB_MAX_POLL_FAILURES"
	EnvRequestTimeout  = "YTWEB_REQUEST_TIMEOUT"
	EnvLinkNoticeDelay = "YTWEB_LINK_NOTICE_DELAY"
	EnvDownloadDir     = "YTWEB_DOWNLOAD_DIR"
	EnvMetricsAddr     = "YTWEB_METRICS_ADDR"
	EnvLogLevel        = "YTWEB_LOG_LEVEL"
	EnvLogFormat       = "YTWEB_LOG_FORMAT"
	EnvLogFile         = "YTWEB_LOG_FILE"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// LogConfig selects log level, format and an optional rotating file
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // console|json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Config is the client configuration
type Config struct {
	ServerURL       string        `yaml:"serverUrl"`
	Quality         string        `yaml:"quality"`
	PollInterval    time.Duration `yaml:"pollInterval"`
	MaxPollFailures int           `yaml:"maxPollFailures"` // 0 polls until a terminal status
	RequestTimeout  time.Duration `yaml:"requestTimeout"`  // 0 leaves it to the transport
	LinkNoticeDelay time.Duration `yaml:"linkNoticeDelay"`
	DownloadDir     string        `yaml:"downloadDir"`
	MetricsAddr     string        `yaml:"metricsAddr"` // empty disables the endpoint
	Log             LogConfig     `yaml:"log"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ServerURL:       DefaultServerURL,
		Quality:         model.DefaultQuality.String(),
		PollInterval:    DefaultPollInterval,
		LinkNoticeDelay: DefaultLinkNoticeDelay,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (skipped when
// path is empty), then environment overrides. The result is validated.
func Load(path string, logger zerolog.Logger) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		logger.Debug().Str("path", path).Msg("loaded config file")
	}

	applyEnv(&cfg, logger)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile decodes a YAML file onto cfg. Unknown keys are rejected.
func loadFile(path string, cfg *Config) error {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func applyEnv(cfg *Config, logger zerolog.Logger) {
	cfg.ServerURL = parseString(logger, EnvServerURL, cfg.ServerURL)
	cfg.Quality = parseString(logger, EnvQuality, cfg.Quality)
	cfg.PollInterval = parseDuration(logger, EnvPollInterval, cfg.PollInterval)
	cfg.MaxPollFailures = parseInt(logger, EnvMaxPollFailures, cfg.MaxPollFailures)
	cfg.RequestTimeout = parseDuration(logger, EnvRequestTimeout, cfg.RequestTimeout)
	cfg.LinkNoticeDelay = parseDuration(logger, EnvLinkNoticeDelay, cfg.LinkNoticeDelay)
	cfg.DownloadDir = parseString(logger, EnvDownloadDir, cfg.DownloadDir)
	cfg.MetricsAddr = parseString(logger, EnvMetricsAddr, cfg.MetricsAddr)
	cfg.Log.Level = parseString(logger, EnvLogLevel, cfg.Log.Level)
	cfg.Log.Format = parseString(logger, EnvLogFormat, cfg.Log.Format)
	cfg.Log.File = parseString(logger, EnvLogFile, cfg.Log.File)
}

// Validate checks ranges and formats
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.ServerURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("%w: serverUrl: %v", ErrInvalid, err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("%w: serverUrl: scheme must be http or https, got %q", ErrInvalid, u.Scheme))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("%w: serverUrl: missing host", ErrInvalid))
	}

	if _, err := model.ParseQuality(c.Quality); err != nil {
		errs = append(errs, fmt.Errorf("%w: quality: %v", ErrInvalid, err))
	}
	if c.PollInterval < MinPollInterval {
		errs = append(errs, fmt.Errorf("%w: pollInterval must be at least %s, got %s", ErrInvalid, MinPollInterval, c.PollInterval))
	}
	if c.MaxPollFailures < 0 {
		errs = append(errs, fmt.Errorf("%w: maxPollFailures must not be negative", ErrInvalid))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: requestTimeout must not be negative", ErrInvalid))
	}
	if c.LinkNoticeDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: linkNoticeDelay must not be negative", ErrInvalid))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: log.format must be console or json, got %q", ErrInvalid, c.Log.Format))
	}

	return errors.Join(errs...)
}

// QualityTier returns the configured quality, or the default when it does not parse
func (c Config) QualityTier() model.Quality {
	q, err := model.ParseQuality(c.Quality)
	if err != nil {
		return model.DefaultQuality
	}
	return q
}

// LogOptions converts the log section for log.Configure
func (c Config) LogOptions(service string) log.Config {
	return log.Config{
		Level:          c.Log.Level,
		Format:         c.Log.Format,
		Service:        service,
		FilePath:       c.Log.File,
		FileMaxSizeMB:  c.Log.MaxSizeMB,
		FileMaxBackups: c.Log.MaxBackups,
		FileMaxAgeDays: c.Log.MaxAgeDays,
	}
}
