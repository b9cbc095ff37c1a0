// Package broadcaster orchestrates publishing events onto channels: a
// durable append to the event store followed by a fire-and-forget wake-up
// signal on the broadcast medium, always in that order.
//
// Two modes cover different latency needs. BroadcastNow runs both steps in
// the caller's control flow and returns the stored event with its assigned
// offset. Broadcast defers the same work to a task queue and returns after
// enqueueing; the event becomes queryable once a worker executes the task.
//
//	b, _ := broadcaster.New(store, publisher,
//		broadcaster.WithEnqueuer(enqueuer, "broadcast"))
//
//	// Synchronous: need the offset right away.
//	event, err := b.BroadcastNow(ctx, "room:42", eventstore.Payload{"n": 1})
//
//	// Asynchronous: fire and forget.
//	err = b.Broadcast(ctx, "room:42", eventstore.Payload{"n": 2})
//
// The two failure kinds stay distinct: ErrStorageFailure means the event
// may not be visible, ErrSignalFailure means it is stored but others may
// not be promptly notified.
package broadcaster
