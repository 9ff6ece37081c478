package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/logging"
)

// EnvPrefix is prepended to every environment variable the configuration
// reads.
const EnvPrefix = "SITTERDIFF_"

// Defaults.
const (
	DefaultCacheSize = 128
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// AppConfig holds every setting of a diff session.
type AppConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// FuseEdits merges Load+Attach and Detach+Unload pairs in scripts.
	FuseEdits bool `yaml:"fuse_edits"`
	// PreferLiterals matches literal-equal subtrees before structurally
	// equal ones.
	PreferLiterals    bool `yaml:"prefer_literals"`
	AllowSyntaxErrors bool `yaml:"allow_syntax_errors"`

	// CacheSize bounds the number of prepared trees kept between diffs.
	// Zero disables the cache.
	CacheSize int `yaml:"cache_size"`
	// Concurrency bounds the number of pairs diffed at once. Zero picks a
	// value from the CPU count.
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`

	Language       string `yaml:"language"`
	ProfilePath    string `yaml:"profile"`
	StylesheetPath string `yaml:"stylesheet"`
	SassBinary     string `yaml:"sass_binary"`
}

// Default returns the built-in configuration.
func Default() AppConfig {
	return AppConfig{
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		FuseEdits:      true,
		PreferLiterals: true,
		CacheSize:      DefaultCacheSize,
		Timeout:        DefaultTimeout,
		Language:       "json",
	}
}

// Load builds the configuration in priority order: environment variables,
// then the YAML file at path (skipped when path is empty), then defaults.
// The result is validated.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return AppConfig{}, apperrors.FromIO(err)
		}
		if err := decodeInto(&cfg, data); err != nil {
			return AppConfig{}, err
		}
	}
	applyEnvOverrides(&cfg, os.LookupEnv)
	cfg = ApplyAdaptiveDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults without consulting the
// environment.
func Parse(data []byte) (AppConfig, error) {
	cfg := Default()
	if err := decodeInto(&cfg, data); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func decodeInto(cfg *AppConfig, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.FromYAML(err)
	}
	return nil
}

// Validate checks the configuration for values no component can work
// with.
func (c AppConfig) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("unknown log level %q", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return apperrors.NewConfigError("log format must be json or console, got %q", c.LogFormat)
	}
	if c.CacheSize < 0 {
		return apperrors.NewConfigError("cache size cannot be negative, got %d", c.CacheSize)
	}
	if c.Concurrency < 0 {
		return apperrors.NewConfigError("concurrency cannot be negative, got %d", c.Concurrency)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Language == "" && c.ProfilePath == "" {
		return apperrors.NewConfigError("either a language or a profile is required")
	}
	return nil
}

// NewLogger builds the logger the configuration asks for.
func (c AppConfig) NewLogger(w io.Writer, component string) logging.Logger {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		level, _ = logging.ParseLevel(DefaultLogLevel)
	}
	if c.LogFormat == "console" {
		return logging.NewConsoleLogger(w, component).WithLevel(level)
	}
	return logging.NewLogger(w, component).WithLevel(level)
}
