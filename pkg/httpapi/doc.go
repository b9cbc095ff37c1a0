// Package httpapi exposes the event retrieval endpoint the long-poll
// gateway calls to fetch events from storage.
//
//	GET /events?channel_id=...&secret=...&offset=0&limit=100
//
// responds with {"events": [{"id", "event", "created_at"}], "count": N}.
// The secret is compared in constant time and rejected uniformly; offset
// and limit outside their ranges are validation errors with field detail,
// never silent clamps.
package httpapi
