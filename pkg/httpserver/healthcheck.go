package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/longpoll/pkg/logger"
)

// HealthCheckHandler returns a handler usable as both a liveness and a
// readiness probe. With no dependency functions it answers 200 "ALIVE".
// With dependency functions it runs each one and answers 200 "READY" when
// all succeed, 500 "NOT_READY" otherwise.
func HealthCheckHandler(ctx context.Context, log *slog.Logger, funcs ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(funcs) == 0 {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ALIVE"))
			return
		}

		for _, f := range funcs {
			if err := f(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}
}
