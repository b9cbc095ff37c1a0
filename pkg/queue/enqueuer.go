package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnqueuerRepository defines the interface for task creation.
type EnqueuerRepository interface {
	CreateTask(ctx context.Context, task *Task) error
}

// Enqueuer submits tasks for asynchronous execution. Enqueue returns as
// soon as the task is stored; execution happens later on a Worker.
type Enqueuer struct {
	repo         EnqueuerRepository
	defaultQueue string
}

// EnqueuerOption configures an Enqueuer.
type EnqueuerOption func(*Enqueuer)

// WithDefaultQueue sets the queue used when Enqueue gets no explicit queue.
func WithDefaultQueue(name string) EnqueuerOption {
	return func(e *Enqueuer) {
		if name != "" {
			e.defaultQueue = name
		}
	}
}

// NewEnqueuer creates a new Enqueuer.
func NewEnqueuer(repo EnqueuerRepository, opts ...EnqueuerOption) (*Enqueuer, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	e := &Enqueuer{
		repo:         repo,
		defaultQueue: DefaultQueueName,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type enqueueOptions struct {
	queue      string
	taskName   string
	maxRetries int8
	delay      time.Duration
}

// EnqueueOption configures a single Enqueue call.
type EnqueueOption func(*enqueueOptions)

// WithQueue overrides the target queue for this task.
func WithQueue(name string) EnqueueOption {
	return func(o *enqueueOptions) {
		if name != "" {
			o.queue = name
		}
	}
}

// WithTaskName overrides the handler name derived from the payload type.
func WithTaskName(name string) EnqueueOption {
	return func(o *enqueueOptions) {
		if name != "" {
			o.taskName = name
		}
	}
}

// WithMaxRetries sets how many times a failing task is retried.
func WithMaxRetries(n int8) EnqueueOption {
	return func(o *enqueueOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithDelay postpones first execution by d.
func WithDelay(d time.Duration) EnqueueOption {
	return func(o *enqueueOptions) {
		if d > 0 {
			o.delay = d
		}
	}
}

// Enqueue stores a new task. The task name defaults to the qualified struct
// name of the payload, which must match a handler registered on the worker.
func (e *Enqueuer) Enqueue(ctx context.Context, payload any, opts ...EnqueueOption) error {
	if payload == nil {
		return ErrPayloadNil
	}

	options := &enqueueOptions{
		queue:      e.defaultQueue,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(options)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Join(ErrPayloadMarshal, err)
	}

	taskName := options.taskName
	if taskName == "" {
		taskName = qualifiedStructName(payload)
	}

	now := time.Now()
	task := &Task{
		ID:          uuid.New(),
		Queue:       options.queue,
		TaskName:    taskName,
		Payload:     body,
		Status:      TaskStatusPending,
		MaxRetries:  options.maxRetries,
		ScheduledAt: now.Add(options.delay),
		CreatedAt:   now,
	}

	if err := e.repo.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("failed to create task %q in queue %q: %w", task.TaskName, task.Queue, err)
	}
	return nil
}
