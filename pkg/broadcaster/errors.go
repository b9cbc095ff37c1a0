package broadcaster

import "errors"

var (
	// ErrStoreNil is returned when a nil event store is provided.
	ErrStoreNil = errors.New("broadcaster: event store cannot be nil")

	// ErrPublisherNil is returned when a nil signal publisher is provided.
	ErrPublisherNil = errors.New("broadcaster: signal publisher cannot be nil")

	// ErrQueueNotConfigured is returned by Broadcast when no enqueuer was set.
	ErrQueueNotConfigured = errors.New("broadcaster: queued mode requires an enqueuer")

	// ErrFailedToEnqueue is returned when the broadcast task cannot be queued.
	ErrFailedToEnqueue = errors.New("broadcaster: failed to enqueue broadcast task")

	// ErrStorageFailure means the event may not be visible: the durable
	// append did not complete.
	ErrStorageFailure = errors.New("broadcaster: event storage failed")

	// ErrSignalFailure means the event is stored but subscribers may not be
	// promptly notified; they catch up on their next poll.
	ErrSignalFailure = errors.New("broadcaster: wake-up signal failed")
)
