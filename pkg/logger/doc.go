// Package logger builds slog loggers with a consistent shape across the
// module: JSON or text output, env-driven level and a service attribute.
package logger
