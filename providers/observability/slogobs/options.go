package slogobs

import (
	"io"
	"log/slog"
	"os"
)

// Option configures [NewLogger].
type Option func(*config)

type config struct {
	format Format
	level  slog.Level
	output io.Writer
	colors bool
	static []slog.Attr
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(c *config) {
		c.format = format
	}
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput sets the destination writer. Defaults to os.Stderr.
func WithOutput(output io.Writer) Option {
	return func(c *config) {
		c.output = output
	}
}

// WithColors forces ANSI colors on. Without it colors are enabled only when
// the output is a terminal. JSON output is never colored.
func WithColors(enabled bool) Option {
	return func(c *config) {
		c.colors = enabled
	}
}

// WithAttrs attaches attributes to every record, e.g. the component name.
func WithAttrs(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.static = append(c.static, attrs...)
	}
}

func defaultConfig() *config {
	return &config{
		format: FormatFromEnv(),
		level:  LevelFromEnv(),
		output: os.Stderr,
	}
}

func applyOptions(opts ...Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewLogger returns a logger backed by a [Handler] configured from the
// environment and the given options.
func NewLogger(opts ...Option) *slog.Logger {
	cfg := applyOptions(opts...)

	var handler slog.Handler = NewHandler(&HandlerOptions{
		Format: cfg.format,
		Level:  cfg.level,
		Output: cfg.output,
		Colors: cfg.colors,
	})
	if len(cfg.static) > 0 {
		handler = handler.WithAttrs(cfg.static)
	}
	return slog.New(handler)
}
