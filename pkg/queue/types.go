package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultQueueName is used when no queue is specified.
const DefaultQueueName = "default"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task is one unit of deferred work. The payload is an opaque JSON document;
// the task name selects the handler that knows how to decode it.
//
// Failed tasks are retried until MaxRetries is exhausted, so handlers run
// with at-least-once semantics: a handler that is not idempotent must
// document the consequences of re-execution.
type Task struct {
	ID          uuid.UUID       `json:"id"`
	Queue       string          `json:"queue"`
	TaskName    string          `json:"task_name"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Status      TaskStatus      `json:"status"`
	RetryCount  int8            `json:"retry_count"`
	MaxRetries  int8            `json:"max_retries"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	LockedUntil *time.Time      `json:"locked_until,omitempty"`
	LockedBy    *uuid.UUID      `json:"locked_by,omitempty"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	Error       *string         `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
