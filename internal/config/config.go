// Package config resolves tabex settings from defaults, an optional YAML
// file, a .env file and the process environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/tabex/core/extract"
	"github.com/leofalp/tabex/core/retry"
	"github.com/leofalp/tabex/providers/ai/gemini"
	"github.com/leofalp/tabex/providers/observability/slogobs"
)

// Environment variables read by [Load].
const (
	EnvConfigFile    = "TABEX_CONFIG"
	EnvAPIKey        = "GEMINI_API_KEY"
	EnvAPIKeyLegacy  = "GOOGLE_API_KEY"
	EnvBaseURL       = "GEMINI_API_BASE_URL"
	EnvModel         = "TABEX_MODEL"
	EnvDialect       = "TABEX_DIALECT"
	EnvRetryAttempts = "TABEX_RETRY_ATTEMPTS"
	EnvRetryDelay    = "TABEX_RETRY_DELAY"
	EnvRetryTimeout  = "TABEX_RETRY_ATTEMPT_TIMEOUT"
	EnvPort          = "TABEX_PORT"
	EnvPortFallback  = "PORT"
)

// DefaultPort is the HTTP port used when none is configured.
const DefaultPort = "8080"

// Config holds every tunable of the CLI and the HTTP server.
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Dialect string `yaml:"dialect"`

	Retry  RetryConfig  `yaml:"retry"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`

	// Path is the YAML file the config was read from, if any.
	Path string `yaml:"-"`
}

// RetryConfig configures the model-call retry policy.
type RetryConfig struct {
	Attempts       int           `yaml:"attempts"`
	InitialDelay   time.Duration `yaml:"initial_delay"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LogConfig selects the log format and minimum level.
type LogConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Model:   gemini.DefaultModel,
		Dialect: string(extract.DialectPipe),
		Retry: RetryConfig{
			Attempts:     retry.DefaultMaxAttempts,
			InitialDelay: retry.DefaultInitialDelay,
		},
		Server: ServerConfig{Port: DefaultPort},
		Log:    LogConfig{Format: string(slogobs.FormatCompact), Level: "info"},
	}
}

// Load resolves the configuration. Variables from a .env file in the
// working directory are loaded first without overriding the environment.
// path names a YAML file; when empty, TABEX_CONFIG is used. A named file
// that does not exist is an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.Path = path
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.APIKey, EnvAPIKey, EnvAPIKeyLegacy)
	setString(&c.BaseURL, EnvBaseURL)
	setString(&c.Model, EnvModel)
	setString(&c.Dialect, EnvDialect)
	setString(&c.Server.Port, EnvPort, EnvPortFallback)
	setString(&c.Log.Format, slogobs.EnvLogFormat, slogobs.EnvLogFormatFallback)
	setString(&c.Log.Level, slogobs.EnvLogLevel, slogobs.EnvLogLevelFallback)

	if v := strings.TrimSpace(os.Getenv(EnvRetryAttempts)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRetryAttempts, err)
		}
		c.Retry.Attempts = n
	}
	if err := setDuration(&c.Retry.InitialDelay, EnvRetryDelay); err != nil {
		return err
	}
	return setDuration(&c.Retry.AttemptTimeout, EnvRetryTimeout)
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// setString overwrites dst with the first non-empty variable among keys.
func setString(dst *string, keys ...string) {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
			return
		}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := extract.ParseDialect(c.Dialect); err != nil {
		return fmt.Errorf("dialect: %w", err)
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.Attempts)
	}
	if c.Retry.InitialDelay <= 0 {
		return fmt.Errorf("retry initial delay must be positive, got %s", c.Retry.InitialDelay)
	}
	if c.Retry.AttemptTimeout < 0 {
		return fmt.Errorf("retry attempt timeout must not be negative, got %s", c.Retry.AttemptTimeout)
	}
	if _, ok := slogobs.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// Logger builds the process logger for the configured format and level.
func (c *Config) Logger() *slog.Logger {
	level, _ := slogobs.ParseLevel(c.Log.Level)
	return slogobs.NewLogger(
		slogobs.WithFormat(slogobs.ParseFormat(c.Log.Format)),
		slogobs.WithLevel(level),
	)
}

// Policy returns the retry policy for model calls.
func (c *Config) Policy(logger *slog.Logger) retry.Policy {
	return retry.Policy{
		MaxAttempts:    c.Retry.Attempts,
		InitialDelay:   c.Retry.InitialDelay,
		AttemptTimeout: c.Retry.AttemptTimeout,
		Logger:         logger,
	}
}

// Provider returns a Gemini provider using the configured key and base URL.
func (c *Config) Provider() *gemini.GeminiProvider {
	p := gemini.New()
	if c.APIKey != "" {
		p.WithAPIKey(c.APIKey)
	}
	if c.BaseURL != "" {
		p.WithBaseURL(c.BaseURL)
	}
	return p
}

// Extractor wires the provider, model name and retry policy with the
// configured dialect.
func (c *Config) Extractor(logger *slog.Logger) *extract.Extractor {
	dialect, _ := extract.ParseDialect(c.Dialect)
	return c.ExtractorFor(dialect, logger)
}

// ExtractorFor is Extractor with an explicit dialect.
func (c *Config) ExtractorFor(dialect extract.Dialect, logger *slog.Logger) *extract.Extractor {
	return extract.New(
		extract.ProviderModel(c.Provider(), c.Model, dialect),
		extract.WithModelName(c.Model),
		extract.WithDialect(dialect),
		extract.WithPolicy(c.Policy(logger)),
		extract.WithLogger(logger),
	)
}
