package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/longpoll/pkg/eventstore"
	"github.com/dmitrymomot/longpoll/pkg/httpapi"
	"github.com/dmitrymomot/longpoll/pkg/query"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) (*httpapi.Service, *eventstore.MemoryStore) {
	t.Helper()

	store := eventstore.NewMemoryStore()
	facade, err := query.New(store)
	require.NoError(t, err)

	svc, err := httpapi.NewService(facade, httpapi.Config{AccessSecret: testSecret})
	require.NoError(t, err)
	return svc, store
}

func getEvents(t *testing.T, svc *httpapi.Service, params url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/events?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	svc.Handle().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("nil facade rejected", func(t *testing.T) {
		t.Parallel()

		svc, err := httpapi.NewService(nil, httpapi.Config{AccessSecret: "s"})
		assert.ErrorIs(t, err, httpapi.ErrFacadeNil)
		assert.Nil(t, svc)
	})

	t.Run("empty secret rejected", func(t *testing.T) {
		t.Parallel()

		facade, err := query.New(eventstore.NewMemoryStore())
		require.NoError(t, err)
		svc, err := httpapi.NewService(facade, httpapi.Config{})
		assert.ErrorIs(t, err, httpapi.ErrEmptySecret)
		assert.Nil(t, svc)
	})
}

func TestGetEvents_Auth(t *testing.T) {
	t.Parallel()

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		rec := getEvents(t, svc, url.Values{"secret": {"nope"}, "channel_id": {"c1"}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized", decodeBody(t, rec)["error"])
	})

	t.Run("missing secret rejected even with invalid input", func(t *testing.T) {
		t.Parallel()

		// Authorization is checked before validation: no field detail leaks.
		svc, _ := newTestService(t)
		rec := getEvents(t, svc, url.Values{"limit": {"99999"}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetEvents_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	cases := []struct {
		name   string
		params url.Values
		field  string
	}{
		{"missing channel", url.Values{"secret": {testSecret}}, "channel_id"},
		{"limit too large", url.Values{"secret": {testSecret}, "channel_id": {"c1"}, "limit": {"150"}}, "limit"},
		{"limit zero", url.Values{"secret": {testSecret}, "channel_id": {"c1"}, "limit": {"0"}}, "limit"},
		{"limit not a number", url.Values{"secret": {testSecret}, "channel_id": {"c1"}, "limit": {"abc"}}, "limit"},
		{"negative offset", url.Values{"secret": {testSecret}, "channel_id": {"c1"}, "offset": {"-5"}}, "offset"},
		{"offset not a number", url.Values{"secret": {testSecret}, "channel_id": {"c1"}, "offset": {"abc"}}, "offset"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := getEvents(t, svc, tc.params)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			body := decodeBody(t, rec)
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, tc.field, body["field"])
		})
	}
}

func TestGetEvents_Read(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, store *eventstore.MemoryStore, channel string, n int) []eventstore.Event {
		t.Helper()
		var events []eventstore.Event
		for i := 1; i <= n; i++ {
			event, err := store.Append(context.Background(), channel, "event", eventstore.Payload{"n": i})
			require.NoError(t, err)
			events = append(events, event)
		}
		return events
	}

	t.Run("returns events and count", func(t *testing.T) {
		t.Parallel()

		svc, store := newTestService(t)
		seeded := seed(t, store, "c1", 3)

		rec := getEvents(t, svc, url.Values{"secret": {testSecret}, "channel_id": {"c1"}})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.EqualValues(t, 3, body["count"])

		events := body["events"].([]any)
		require.Len(t, events, 3)
		first := events[0].(map[string]any)
		assert.EqualValues(t, seeded[0].ID, first["id"])
		assert.NotNil(t, first["event"])
		assert.NotZero(t, first["created_at"])
	})

	t.Run("availability clamps below limit", func(t *testing.T) {
		t.Parallel()

		svc, store := newTestService(t)
		seeded := seed(t, store, "c1", 10)

		rec := getEvents(t, svc, url.Values{
			"secret":     {testSecret},
			"channel_id": {"c1"},
			"offset":     {strconv.FormatInt(seeded[4].ID, 10)},
			"limit":      {"50"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 5, decodeBody(t, rec)["count"])
	})

	t.Run("empty channel yields empty list", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		rec := getEvents(t, svc, url.Values{"secret": {testSecret}, "channel_id": {"quiet"}})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.EqualValues(t, 0, body["count"])
		assert.Empty(t, body["events"])
	})

	t.Run("type filter narrows results", func(t *testing.T) {
		t.Parallel()

		svc, store := newTestService(t)
		_, err := store.Append(context.Background(), "c1", "event", nil)
		require.NoError(t, err)
		_, err = store.Append(context.Background(), "c1", "presence", nil)
		require.NoError(t, err)

		rec := getEvents(t, svc, url.Values{
			"secret":     {testSecret},
			"channel_id": {"c1"},
			"type":       {"presence"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, decodeBody(t, rec)["count"])
	})
}
