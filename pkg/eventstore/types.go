package eventstore

import "time"

// DefaultType is assigned to events appended without an explicit type.
const DefaultType = "event"

// Payload is the opaque event body. The store never interprets it beyond
// serializing it for persistence; it is stored and returned as-is.
type Payload map[string]any

// Event is one immutable record in a channel's log.
//
// ID is the global offset: assigned by the store at append time, strictly
// increasing across the whole log and never reused, even after deletion.
// Consumers use it as a resumable cursor. CreatedAt exists only for
// retention; ordering is always by ID.
type Event struct {
	ID        int64     `json:"id"`
	ChannelID string    `json:"channel_id"`
	Type      string    `json:"type"`
	Payload   Payload   `json:"event"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter selects events for deletion. All fields are optional and combine
// with logical AND. The zero value matches every event in the store, so
// callers passing an empty filter are asking for a full wipe.
type Filter struct {
	// ChannelID restricts deletion to a single channel when non-empty.
	ChannelID string
	// Types restricts deletion to the given event types when non-empty.
	Types []string
	// OlderThan deletes only events created strictly before this time
	// when non-zero.
	OlderThan time.Time
}

// IsZero reports whether the filter matches the whole store.
func (f Filter) IsZero() bool {
	return f.ChannelID == "" && len(f.Types) == 0 && f.OlderThan.IsZero()
}

func clonePayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	c := make(Payload, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}
