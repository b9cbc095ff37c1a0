package broadcaster

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/longpoll/pkg/eventstore"
	"github.com/dmitrymomot/longpoll/pkg/queue"
)

// BroadcastTask is the queued unit of work for asynchronous broadcasts.
// SkipStore is false in the JSON zero value, so a task without the field
// persists its event.
type BroadcastTask struct {
	ChannelID string             `json:"channel_id"`
	Type      string             `json:"type,omitempty"`
	Payload   eventstore.Payload `json:"payload,omitempty"`
	SkipStore bool               `json:"skip_store,omitempty"`
}

// TaskHandler returns the queue handler executing queued broadcasts.
// Register it on the worker that serves the broadcast queue.
//
// Storage failures are returned so the queue retries the task; a retry
// re-runs the append and assigns a new offset. Signal failures are only
// logged: the event is already durable, and retrying the whole task to
// re-send a best-effort wake-up would duplicate it.
func (b *Broadcaster) TaskHandler() queue.Handler {
	return queue.NewTaskHandler(func(ctx context.Context, task BroadcastTask) error {
		_, err := b.execute(ctx, task)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrSignalFailure) {
			b.logger.ErrorContext(ctx, "wake-up signal failed after durable append",
				slog.String("channel_id", task.ChannelID),
				slog.String("error", err.Error()))
			return nil
		}
		return err
	})
}
