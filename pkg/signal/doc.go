// Package signal publishes fire-and-forget "channel changed" notifications
// to a shared broadcast medium.
//
// The signal exists purely to cut discovery latency: a long-poll gateway
// subscribed to the topic wakes parked readers when a channel changes, then
// reads actual event content from the store. Delivery is at-most-once, so
// nothing in the system may depend on a signal arriving — a consumer that
// misses one catches up from its stored offset on the next poll.
//
// Publish failures are therefore never propagated back into storage: an
// event that was durably appended stays appended even when its wake-up
// signal is lost.
package signal
