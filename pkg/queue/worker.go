package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WorkerRepository defines the interface for worker operations.
type WorkerRepository interface {
	// ClaimTask atomically claims the next due pending task from the given
	// queues and locks it for lockDuration. It returns ErrNoTaskToClaim
	// when nothing is due.
	ClaimTask(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Task, error)

	// CompleteTask marks a task as completed.
	CompleteTask(ctx context.Context, taskID uuid.UUID) error

	// FailTask records the error and either reschedules the task as pending
	// (retries remain) or marks it permanently failed.
	FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error
}

// Worker pulls tasks from the repository and dispatches them to registered
// handlers. Concurrency is bounded by a semaphore; a panicking handler is
// recorded as a task failure, never crashes the worker.
type Worker struct {
	repo     WorkerRepository
	handlers map[string]Handler
	queues   []string
	workerID uuid.UUID
	sem      chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex

	pullInterval time.Duration
	lockTimeout  time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	ctx    context.Context
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithQueues sets which queues the worker pulls from.
func WithQueues(queues ...string) WorkerOption {
	return func(w *Worker) {
		if len(queues) > 0 {
			w.queues = queues
		}
	}
}

// WithPullInterval sets how often the worker polls for tasks.
func WithPullInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pullInterval = d
		}
	}
}

// WithLockTimeout sets how long a claimed task stays locked.
func WithLockTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.lockTimeout = d
		}
	}
}

// WithMaxConcurrentTasks bounds how many tasks run at once.
func WithMaxConcurrentTasks(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.sem = make(chan struct{}, n)
		}
	}
}

// WithLogger sets the worker's logger.
func WithLogger(log *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if log != nil {
			w.logger = log
		}
	}
}

// NewWorker creates a new task worker.
func NewWorker(repo WorkerRepository, opts ...WorkerOption) (*Worker, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	w := &Worker{
		repo:         repo,
		handlers:     make(map[string]Handler),
		queues:       []string{DefaultQueueName},
		workerID:     uuid.New(),
		sem:          make(chan struct{}, 1),
		pullInterval: time.Second,
		lockTimeout:  5 * time.Minute,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// RegisterHandlers registers task handlers by name.
func (w *Worker) RegisterHandlers(handlers ...Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, h := range handlers {
		if h != nil {
			w.handlers[h.Name()] = h
		}
	}
}

// Start begins processing tasks in the background.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return errors.New("worker already started")
	}
	if len(w.handlers) == 0 {
		return ErrNoHandlers
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	go w.run()

	w.logger.Info("worker started",
		slog.String("worker_id", w.workerID.String()),
		slog.Any("queues", w.queues))
	return nil
}

// Stop cancels processing and waits for in-flight tasks to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel == nil {
		return errors.New("worker not started")
	}
	cancel()
	w.wg.Wait()

	w.logger.Info("worker stopped", slog.String("worker_id", w.workerID.String()))
	return nil
}

// Run returns a function suitable for errgroup: it starts the worker,
// blocks until the context is done, then stops it.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return w.Stop()
	}
}

func (w *Worker) run() {
	ticker := time.NewTicker(w.pullInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			select {
			case w.sem <- struct{}{}:
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-w.sem }()
					if err := w.pullAndProcess(); err != nil && !errors.Is(err, ErrHandlerNotFound) {
						w.logger.Error("failed to process task",
							slog.String("worker_id", w.workerID.String()),
							slog.String("error", err.Error()))
					}
				}()
			default:
				// All slots busy; skip this tick.
			}
		}
	}
}

func (w *Worker) pullAndProcess() error {
	task, err := w.repo.ClaimTask(w.ctx, w.workerID, w.queues, w.lockTimeout)
	if err != nil {
		if errors.Is(err, ErrNoTaskToClaim) {
			return nil
		}
		return fmt.Errorf("failed to claim task: %w", err)
	}
	if task == nil {
		return nil
	}
	return w.processTask(task)
}

func (w *Worker) processTask(task *Task) (retErr error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("panic in handler: %v", r)
			_ = w.failTask(task, retErr)
		}
	}()

	w.mu.RLock()
	handler, ok := w.handlers[task.TaskName]
	w.mu.RUnlock()

	if !ok {
		w.logger.Error("no handler registered for task",
			slog.String("task_id", task.ID.String()),
			slog.String("task_name", task.TaskName))
		if err := w.repo.FailTask(w.ctx, task.ID, "no handler registered for task: "+task.TaskName); err != nil {
			return fmt.Errorf("failed to mark task %s as failed: %w", task.ID, err)
		}
		return ErrHandlerNotFound
	}

	// Detach from the worker lifecycle so graceful shutdown lets the task
	// finish within its lock window.
	ctx, cancel := context.WithTimeout(context.Background(), w.lockTimeout)
	defer cancel()

	if err := handler.Handle(ctx, task.Payload); err != nil {
		return w.failTask(task, err)
	}

	if err := w.repo.CompleteTask(w.ctx, task.ID); err != nil {
		return fmt.Errorf("failed to mark task %s as completed: %w", task.ID, err)
	}

	w.logger.Debug("task completed",
		slog.String("task_id", task.ID.String()),
		slog.String("task_name", task.TaskName),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (w *Worker) failTask(task *Task, execErr error) error {
	w.logger.Error("task failed",
		slog.String("task_id", task.ID.String()),
		slog.String("task_name", task.TaskName),
		slog.Int("retry_count", int(task.RetryCount)),
		slog.Int("max_retries", int(task.MaxRetries)),
		slog.String("error", execErr.Error()))

	if err := w.repo.FailTask(w.ctx, task.ID, execErr.Error()); err != nil {
		return fmt.Errorf("failed to update task %s status: %w", task.ID, err)
	}
	return nil
}
