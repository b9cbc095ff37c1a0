package broadcaster

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/longpoll/pkg/eventstore"
	"github.com/dmitrymomot/longpoll/pkg/queue"
	"github.com/dmitrymomot/longpoll/pkg/signal"
)

// Broadcaster orchestrates "append then signal". The order is fixed: the
// event is durable before the wake-up signal goes out, so a subscriber that
// wakes always finds the event in storage.
type Broadcaster struct {
	store     eventstore.Store
	publisher signal.Publisher
	enqueuer  *queue.Enqueuer
	queueName string
	logger    *slog.Logger
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithEnqueuer enables queued broadcasts on the given queue name. Without
// it only BroadcastNow is available.
func WithEnqueuer(enqueuer *queue.Enqueuer, queueName string) Option {
	return func(b *Broadcaster) {
		b.enqueuer = enqueuer
		if queueName != "" {
			b.queueName = queueName
		}
	}
}

// WithLogger sets the broadcaster's logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Broadcaster) {
		if log != nil {
			b.logger = log
		}
	}
}

// DefaultQueueName is the queue used for queued broadcasts unless configured.
const DefaultQueueName = "broadcast"

// New creates a Broadcaster over the given store and signal publisher.
func New(store eventstore.Store, publisher signal.Publisher, opts ...Option) (*Broadcaster, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if publisher == nil {
		return nil, ErrPublisherNil
	}

	b := &Broadcaster{
		store:     store,
		publisher: publisher,
		queueName: DefaultQueueName,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

type broadcastOptions struct {
	eventType string
	skipStore bool
}

// BroadcastOption configures a single broadcast.
type BroadcastOption func(*broadcastOptions)

// WithType sets the event type partitioning the channel into sub-streams.
// Unset, events are stored as eventstore.DefaultType.
func WithType(eventType string) BroadcastOption {
	return func(o *broadcastOptions) {
		if eventType != "" {
			o.eventType = eventType
		}
	}
}

// WithoutStore publishes only the wake-up signal without persisting an
// event. The signal's event id is the channel's current last offset, a
// hint that subscribers should re-check storage.
func WithoutStore() BroadcastOption {
	return func(o *broadcastOptions) {
		o.skipStore = true
	}
}

// Broadcast enqueues the append+publish as an asynchronous task and returns
// immediately. The queue's retry policy gives at-least-once execution; a
// retried task appends a fresh event with a new offset, since the payload
// carries no idempotency key. Callers that cannot tolerate duplicates under
// retry must use BroadcastNow.
func (b *Broadcaster) Broadcast(ctx context.Context, channelID string, payload eventstore.Payload, opts ...BroadcastOption) error {
	if b.enqueuer == nil {
		return ErrQueueNotConfigured
	}
	if channelID == "" {
		return eventstore.ErrEmptyChannelID
	}

	var options broadcastOptions
	for _, opt := range opts {
		opt(&options)
	}

	task := BroadcastTask{
		ChannelID: channelID,
		Type:      options.eventType,
		Payload:   payload,
		SkipStore: options.skipStore,
	}
	if err := b.enqueuer.Enqueue(ctx, task, queue.WithQueue(b.queueName)); err != nil {
		return errors.Join(ErrFailedToEnqueue, err)
	}
	return nil
}

// BroadcastNow appends the event and publishes the wake-up signal in the
// caller's control flow, returning the stored event with its offset.
//
// A storage failure aborts before any signal and is reported as
// ErrStorageFailure. A signal failure after a successful append is reported
// as ErrSignalFailure together with the valid, durable event: the caller's
// data is safe, only discovery latency degrades.
func (b *Broadcaster) BroadcastNow(ctx context.Context, channelID string, payload eventstore.Payload, opts ...BroadcastOption) (eventstore.Event, error) {
	var options broadcastOptions
	for _, opt := range opts {
		opt(&options)
	}
	return b.execute(ctx, BroadcastTask{
		ChannelID: channelID,
		Type:      options.eventType,
		Payload:   payload,
		SkipStore: options.skipStore,
	})
}

func (b *Broadcaster) execute(ctx context.Context, task BroadcastTask) (eventstore.Event, error) {
	var event eventstore.Event

	if task.SkipStore {
		offset, err := b.store.LastOffset(ctx, task.ChannelID)
		if err != nil {
			return eventstore.Event{}, errors.Join(ErrStorageFailure, err)
		}
		if err := b.publisher.Publish(ctx, task.ChannelID, offset); err != nil {
			return eventstore.Event{}, errors.Join(ErrSignalFailure, err)
		}
		return eventstore.Event{}, nil
	}

	event, err := b.store.Append(ctx, task.ChannelID, task.Type, task.Payload)
	if err != nil {
		return eventstore.Event{}, errors.Join(ErrStorageFailure, err)
	}

	if err := b.publisher.Publish(ctx, task.ChannelID, event.ID); err != nil {
		return event, errors.Join(ErrSignalFailure, err)
	}
	return event, nil
}
