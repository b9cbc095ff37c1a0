package queue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage implements the queue repositories in memory for testing and
// single-process deployments. Expired locks are reaped by a background
// goroutine so crashed handlers do not strand tasks in processing state.
type MemoryStorage struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*Task

	lockTicker *time.Ticker
	done       chan struct{}
	closeOnce  sync.Once
}

// NewMemoryStorage creates a new in-memory storage implementation.
func NewMemoryStorage() *MemoryStorage {
	ms := &MemoryStorage{
		tasks: make(map[uuid.UUID]*Task),
		done:  make(chan struct{}),
	}
	ms.lockTicker = time.NewTicker(time.Second)
	go ms.reapExpiredLocks()
	return ms
}

// Close stops the background lock reaper.
func (ms *MemoryStorage) Close() error {
	ms.closeOnce.Do(func() {
		close(ms.done)
		ms.lockTicker.Stop()
	})
	return nil
}

// CreateTask implements EnqueuerRepository.
func (ms *MemoryStorage) CreateTask(_ context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tasks[task.ID]; exists {
		return fmt.Errorf("task with ID %s already exists", task.ID)
	}

	taskCopy := *task
	ms.tasks[task.ID] = &taskCopy
	return nil
}

// ClaimTask implements WorkerRepository. The oldest due pending task wins.
func (ms *MemoryStorage) ClaimTask(_ context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Task, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	var best *Task
	for _, task := range ms.tasks {
		if task.Status != TaskStatusPending {
			continue
		}
		if !slices.Contains(queues, task.Queue) {
			continue
		}
		if task.ScheduledAt.After(now) {
			continue
		}
		if best == nil || task.ScheduledAt.Before(best.ScheduledAt) {
			best = task
		}
	}
	if best == nil {
		return nil, ErrNoTaskToClaim
	}

	lockedUntil := now.Add(lockDuration)
	best.Status = TaskStatusProcessing
	best.LockedUntil = &lockedUntil
	best.LockedBy = &workerID

	taskCopy := *best
	return &taskCopy, nil
}

// CompleteTask implements WorkerRepository.
func (ms *MemoryStorage) CompleteTask(_ context.Context, taskID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	task, ok := ms.tasks[taskID]
	if !ok {
		return fmt.Errorf("task %s not found", taskID)
	}

	now := time.Now()
	task.Status = TaskStatusCompleted
	task.ProcessedAt = &now
	task.LockedUntil = nil
	task.LockedBy = nil
	return nil
}

// FailTask implements WorkerRepository. Tasks with retries left go back to
// pending with a linear backoff; exhausted tasks stay failed.
func (ms *MemoryStorage) FailTask(_ context.Context, taskID uuid.UUID, errorMsg string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	task, ok := ms.tasks[taskID]
	if !ok {
		return fmt.Errorf("task %s not found", taskID)
	}

	task.RetryCount++
	task.Error = &errorMsg
	task.LockedUntil = nil
	task.LockedBy = nil

	if task.RetryCount > task.MaxRetries {
		now := time.Now()
		task.Status = TaskStatusFailed
		task.ProcessedAt = &now
		return nil
	}

	task.Status = TaskStatusPending
	task.ScheduledAt = time.Now().Add(time.Duration(task.RetryCount) * time.Second)
	return nil
}

// TaskByID returns a copy of the stored task, mainly for tests.
func (ms *MemoryStorage) TaskByID(taskID uuid.UUID) (*Task, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	task, ok := ms.tasks[taskID]
	if !ok {
		return nil, false
	}
	taskCopy := *task
	return &taskCopy, true
}

// Tasks returns copies of all stored tasks.
func (ms *MemoryStorage) Tasks() []*Task {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]*Task, 0, len(ms.tasks))
	for _, task := range ms.tasks {
		taskCopy := *task
		out = append(out, &taskCopy)
	}
	return out
}

func (ms *MemoryStorage) reapExpiredLocks() {
	for {
		select {
		case <-ms.done:
			return
		case <-ms.lockTicker.C:
			ms.mu.Lock()
			now := time.Now()
			for _, task := range ms.tasks {
				if task.Status == TaskStatusProcessing && task.LockedUntil != nil && task.LockedUntil.Before(now) {
					task.Status = TaskStatusPending
					task.LockedUntil = nil
					task.LockedBy = nil
				}
			}
			ms.mu.Unlock()
		}
	}
}
