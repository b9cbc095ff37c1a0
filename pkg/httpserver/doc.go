// Package httpserver wraps net/http with graceful shutdown, env-driven
// timeouts, and probe handlers.
//
// Run starts the listener in its own goroutine and blocks until the context
// is cancelled, an interrupt or TERM signal arrives, or the listener fails.
// Shutdown then drains in-flight requests within the configured deadline.
// Listen errors are wrapped with ErrStart and shutdown errors with
// ErrShutdown so callers can distinguish them with errors.Is.
//
// HealthCheckHandler doubles as a liveness probe (no dependencies) and a
// readiness probe (dependency check functions supplied).
package httpserver
