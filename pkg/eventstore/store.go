package eventstore

import "context"

// Store is the durable, ordered, append-only event log.
//
// Implementations must assign offsets from a single monotonic sequence
// shared by all channels, and must be safe for concurrent use by multiple
// readers and writers. Reads never block writes and vice versa.
type Store interface {
	// Append durably persists a new event on the channel and returns it
	// with its assigned offset. An empty eventType is stored as
	// DefaultType. Offset assignment relies on the backing store's atomic
	// sequence, so concurrent appends from separate processes are safe.
	Append(ctx context.Context, channelID, eventType string, payload Payload) (Event, error)

	// Updates returns events with ID > fromOffset for the channel in
	// ascending ID order, capped at limit. An empty types list matches
	// all types. A fromOffset beyond the end of the log yields an empty
	// result, not an error. Callers paginate by passing the last returned
	// ID as the next fromOffset; deleted events leave gaps, so offsets
	// are sparse cursors, not array indices.
	Updates(ctx context.Context, channelID string, fromOffset int64, limit int, types ...string) ([]Event, error)

	// LastOffset returns the maximum ID among matching events, or 0 when
	// the channel has none.
	//
	// When a channel mixes types, a consumer tracking the unfiltered
	// LastOffset skips no events across types, while a consumer tracking
	// per-type offsets must use type-filtered reads consistently. Mixing
	// the two cursor styles on one channel loses events.
	LastOffset(ctx context.Context, channelID string, types ...string) (int64, error)

	// LastEvents returns the most recent count events in ascending ID
	// order, oldest of the recent first.
	LastEvents(ctx context.Context, channelID string, count int, types ...string) ([]Event, error)

	// Delete removes all events matching the filter and returns how many
	// were deleted. Deletion never recycles offsets: future appends keep
	// drawing from the same monotonic sequence.
	Delete(ctx context.Context, f Filter) (int64, error)
}
