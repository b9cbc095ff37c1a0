// Package retention applies an age-based cleanup policy to the event log.
//
// A Policy is a thin wrapper over the store's filtered delete: everything
// older than the TTL goes, optionally narrowed to one channel and/or a set
// of event types. The core never schedules cleanup on its own — invoke
// Cleanup from an external job, or wrap the policy in a Runner for a
// simple in-process ticker.
package retention
