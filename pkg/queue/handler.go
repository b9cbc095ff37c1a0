package queue

import (
	"context"
	"encoding/json"
)

// Handler processes tasks of one name.
type Handler interface {
	Name() string
	Handle(ctx context.Context, payload json.RawMessage) error
}

// TaskHandlerFunc is a typed task processing function.
type TaskHandlerFunc[T any] func(ctx context.Context, payload T) error

// NewTaskHandler wraps a typed function into a Handler. The handler name is
// the qualified struct name of T, matching what Enqueue derives from the
// payload value.
func NewTaskHandler[T any](handler TaskHandlerFunc[T]) Handler {
	var payload T
	return &taskHandler[T]{
		name:    qualifiedStructName(payload),
		handler: handler,
	}
}

type taskHandler[T any] struct {
	name    string
	handler TaskHandlerFunc[T]
}

func (h *taskHandler[T]) Name() string {
	return h.name
}

func (h *taskHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return err
	}
	return h.handler(ctx, t)
}
