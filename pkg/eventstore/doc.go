// Package eventstore provides the durable, offset-addressed event log that
// backs channel broadcasts.
//
// Every appended event receives an ID from a single monotonic sequence
// shared by all channels. IDs are never reused, so consumers can treat the
// last seen ID as a resumable cursor: re-reading from that offset returns
// exactly the events published after it, in order.
//
// Basic usage:
//
//	store := eventstore.NewPGStore(pool)
//
//	event, err := store.Append(ctx, "room:42", "event", eventstore.Payload{"n": 1})
//	if err != nil {
//		// Handle error
//	}
//
//	updates, err := store.Updates(ctx, "room:42", lastSeen, 100)
//
// Events within one channel can be partitioned into sub-streams by type;
// all read operations accept an optional type list that restricts results
// to a pure subset of the unfiltered stream.
//
// MemoryStore offers the same semantics without a database for tests and
// local development.
package eventstore
