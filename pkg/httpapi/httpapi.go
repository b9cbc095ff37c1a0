package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/longpoll/pkg/eventstore"
	"github.com/dmitrymomot/longpoll/pkg/query"
)

// Config is the read endpoint configuration.
type Config struct {
	AccessSecret string `env:"LONGPOLL_ACCESS_SECRET,required"` // AccessSecret is the pre-shared secret gating event reads.
}

// Service serves the event retrieval endpoint consumed by the long-poll
// gateway. Authentication is a pre-shared secret compared in constant time;
// a mismatch is rejected uniformly with no detail about why.
type Service struct {
	facade *query.Facade
	secret []byte
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service's logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// NewService creates the read endpoint service.
func NewService(facade *query.Facade, cfg Config, opts ...Option) (*Service, error) {
	if facade == nil {
		return nil, ErrFacadeNil
	}
	if cfg.AccessSecret == "" {
		return nil, ErrEmptySecret
	}

	s := &Service{
		facade: facade,
		secret: []byte(cfg.AccessSecret),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handle returns the router for mounting, e.g. under /api/long-polling.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/events", s.getEvents)
	return r
}

// eventResponse is the wire shape of one event; created_at is unix seconds.
type eventResponse struct {
	ID        int64              `json:"id"`
	Event     eventstore.Payload `json:"event"`
	CreatedAt int64              `json:"created_at"`
}

func (s *Service) getEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	provided := []byte(q.Get("secret"))
	if subtle.ConstantTimeCompare(provided, s.secret) != 1 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	channelID := q.Get("channel_id")
	if err := query.ValidateChannelID(channelID); err != nil {
		writeValidationError(w, "channel_id", err)
		return
	}

	offset, err := parseIntParam(q.Get("offset"), 0)
	if err != nil || offset < 0 {
		writeValidationError(w, "offset", errors.New("offset must be an integer >= 0"))
		return
	}

	limit, err := parseIntParam(q.Get("limit"), query.DefaultLimit)
	if err != nil || limit < query.MinLimit || limit > query.MaxLimit {
		writeValidationError(w, "limit", errors.New("limit must be an integer between 1 and 100"))
		return
	}

	events, err := s.facade.Updates(r.Context(), channelID, offset, int(limit), q["type"]...)
	if err != nil {
		if errors.Is(err, query.ErrValidation) {
			writeValidationError(w, "", err)
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to read events",
			slog.String("channel_id", channelID),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, eventResponse{
			ID:        event.ID,
			Event:     event.Payload,
			CreatedAt: event.CreatedAt.Unix(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": out,
		"count":  len(out),
	})
}

func parseIntParam(raw string, def int64) (int64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func writeValidationError(w http.ResponseWriter, field string, err error) {
	body := map[string]string{"error": err.Error()}
	if field != "" {
		body["field"] = field
	}
	writeJSON(w, http.StatusBadRequest, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
