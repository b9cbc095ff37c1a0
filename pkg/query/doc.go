// Package query is the validated read side of the event log: updates since
// an offset, last offset, last N events, each optionally scoped to event
// types. It rejects out-of-range offsets and limits with ErrValidation
// before touching storage and performs no writes.
package query
