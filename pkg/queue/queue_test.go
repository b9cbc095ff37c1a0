package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/longpoll/pkg/queue"
)

type testPayload struct {
	Message string `json:"message"`
}

func TestEnqueuer(t *testing.T) {
	t.Parallel()

	t.Run("nil repository rejected", func(t *testing.T) {
		t.Parallel()

		enqueuer, err := queue.NewEnqueuer(nil)
		assert.ErrorIs(t, err, queue.ErrRepositoryNil)
		assert.Nil(t, enqueuer)
	})

	t.Run("nil payload rejected", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		t.Cleanup(func() { _ = storage.Close() })

		enqueuer, err := queue.NewEnqueuer(storage)
		require.NoError(t, err)
		assert.ErrorIs(t, enqueuer.Enqueue(context.Background(), nil), queue.ErrPayloadNil)
	})

	t.Run("stores pending task with derived name", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		t.Cleanup(func() { _ = storage.Close() })

		enqueuer, err := queue.NewEnqueuer(storage, queue.WithDefaultQueue("broadcast"))
		require.NoError(t, err)
		require.NoError(t, enqueuer.Enqueue(context.Background(), testPayload{Message: "hi"}))

		tasks := storage.Tasks()
		require.Len(t, tasks, 1)
		assert.Equal(t, "broadcast", tasks[0].Queue)
		assert.Equal(t, queue.TaskStatusPending, tasks[0].Status)
		assert.Contains(t, tasks[0].TaskName, "testPayload")
	})
}

func TestWorker(t *testing.T) {
	t.Parallel()

	t.Run("executes enqueued task", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		t.Cleanup(func() { _ = storage.Close() })

		enqueuer, err := queue.NewEnqueuer(storage)
		require.NoError(t, err)

		done := make(chan testPayload, 1)
		worker, err := queue.NewWorker(storage, queue.WithPullInterval(10*time.Millisecond))
		require.NoError(t, err)
		worker.RegisterHandlers(queue.NewTaskHandler(func(_ context.Context, p testPayload) error {
			done <- p
			return nil
		}))

		require.NoError(t, worker.Start(context.Background()))
		t.Cleanup(func() { _ = worker.Stop() })

		require.NoError(t, enqueuer.Enqueue(context.Background(), testPayload{Message: "hello"}))

		select {
		case p := <-done:
			assert.Equal(t, "hello", p.Message)
		case <-time.After(2 * time.Second):
			t.Fatal("task was not executed")
		}
	})

	t.Run("retries failing task then marks failed", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		t.Cleanup(func() { _ = storage.Close() })

		enqueuer, err := queue.NewEnqueuer(storage)
		require.NoError(t, err)

		var attempts atomic.Int32
		worker, err := queue.NewWorker(storage, queue.WithPullInterval(10*time.Millisecond))
		require.NoError(t, err)
		worker.RegisterHandlers(queue.NewTaskHandler(func(_ context.Context, _ testPayload) error {
			attempts.Add(1)
			return errors.New("boom")
		}))

		require.NoError(t, worker.Start(context.Background()))
		t.Cleanup(func() { _ = worker.Stop() })

		require.NoError(t, enqueuer.Enqueue(context.Background(), testPayload{}, queue.WithMaxRetries(1)))

		require.Eventually(t, func() bool {
			for _, task := range storage.Tasks() {
				if task.Status == queue.TaskStatusFailed {
					return true
				}
			}
			return false
		}, 5*time.Second, 20*time.Millisecond)

		// First run plus one retry.
		assert.EqualValues(t, 2, attempts.Load())
	})

	t.Run("start without handlers rejected", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		t.Cleanup(func() { _ = storage.Close() })

		worker, err := queue.NewWorker(storage)
		require.NoError(t, err)
		assert.ErrorIs(t, worker.Start(context.Background()), queue.ErrNoHandlers)
	})
}

func TestMemoryStorage(t *testing.T) {
	t.Parallel()

	t.Run("claim honors queue and schedule", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		t.Cleanup(func() { _ = storage.Close() })
		ctx := context.Background()

		enqueuer, err := queue.NewEnqueuer(storage, queue.WithDefaultQueue("broadcast"))
		require.NoError(t, err)
		require.NoError(t, enqueuer.Enqueue(ctx, testPayload{}, queue.WithDelay(time.Hour)))

		_, err = storage.ClaimTask(ctx, uuid.New(), []string{"broadcast"}, time.Minute)
		assert.ErrorIs(t, err, queue.ErrNoTaskToClaim)

		require.NoError(t, enqueuer.Enqueue(ctx, testPayload{}))
		_, err = storage.ClaimTask(ctx, uuid.New(), []string{"other"}, time.Minute)
		assert.ErrorIs(t, err, queue.ErrNoTaskToClaim)

		task, err := storage.ClaimTask(ctx, uuid.New(), []string{"broadcast"}, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, queue.TaskStatusProcessing, task.Status)
	})

	t.Run("claimed task is not claimable twice", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		t.Cleanup(func() { _ = storage.Close() })
		ctx := context.Background()

		enqueuer, err := queue.NewEnqueuer(storage)
		require.NoError(t, err)
		require.NoError(t, enqueuer.Enqueue(ctx, testPayload{}))

		_, err = storage.ClaimTask(ctx, uuid.New(), []string{queue.DefaultQueueName}, time.Minute)
		require.NoError(t, err)

		_, err = storage.ClaimTask(ctx, uuid.New(), []string{queue.DefaultQueueName}, time.Minute)
		assert.ErrorIs(t, err, queue.ErrNoTaskToClaim)
	})
}
