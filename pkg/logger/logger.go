package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format represents logger output format.
type Format string

const (
	// FormatJSON outputs structured logs for log aggregation systems.
	FormatJSON Format = "json"
	// FormatText outputs human-readable logs for development.
	FormatText Format = "text"
)

// Config describes the logger through environment variables.
type Config struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`   // Level is one of debug, info, warn, error.
	Format  Format `env:"LOG_FORMAT" envDefault:"json"`  // Format is json or text.
	Service string `env:"LOG_SERVICE" envDefault:""`     // Service is attached to every record when set.
}

type options struct {
	level  slog.Level
	format Format
	output io.Writer
	attrs  []slog.Attr
}

// Option configures logger creation.
type Option func(*options)

// WithLevel sets the minimum level.
func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// WithFormat sets the output format. Invalid formats panic to fail fast on
// misconfiguration.
func WithFormat(f Format) Option {
	return func(o *options) {
		switch f {
		case FormatJSON, FormatText:
			o.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets a custom output destination; nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr attaches static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		if len(attrs) > 0 {
			o.attrs = append(o.attrs, attrs...)
		}
	}
}

// New creates an slog.Logger; defaults are info level, JSON format, stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var handler slog.Handler
	switch o.format {
	case FormatText:
		handler = slog.NewTextHandler(o.output, handlerOpts)
	default:
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	}

	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}
	return slog.New(handler)
}

// NewFromConfig creates a logger from environment-driven config.
func NewFromConfig(cfg Config) *slog.Logger {
	opts := []Option{
		WithLevel(parseLevel(cfg.Level)),
	}
	if cfg.Format != "" {
		opts = append(opts, WithFormat(cfg.Format))
	}
	if cfg.Service != "" {
		opts = append(opts, WithAttr(slog.String("service", cfg.Service)))
	}
	return New(opts...)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
