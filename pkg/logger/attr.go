package logger

import "log/slog"

// Error returns a standard attribute for logging errors; nil errors become
// an empty string rather than a panic.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
