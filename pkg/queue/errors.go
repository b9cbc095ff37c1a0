package queue

import "errors"

var (
	// ErrRepositoryNil is returned when a nil repository is provided.
	ErrRepositoryNil = errors.New("queue: repository cannot be nil")

	// ErrPayloadNil is returned when attempting to enqueue a nil payload.
	ErrPayloadNil = errors.New("queue: payload cannot be nil")

	// ErrPayloadMarshal is returned when payload marshaling fails.
	ErrPayloadMarshal = errors.New("queue: failed to marshal payload to JSON")

	// ErrNoTaskToClaim is returned by repositories when no task is due.
	ErrNoTaskToClaim = errors.New("queue: no task to claim")

	// ErrHandlerNotFound is returned when no handler is registered for a task.
	ErrHandlerNotFound = errors.New("queue: no handler registered for task")

	// ErrNoHandlers is returned when a worker starts without handlers.
	ErrNoHandlers = errors.New("queue: no task handlers registered")
)
