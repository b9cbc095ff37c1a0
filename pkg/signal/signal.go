package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is the wake-up hint published when a channel receives an event.
// EventID is advisory: subscribers must re-read the event store for actual
// content and tolerate dropped or reordered messages by falling back to
// their stored cursor.
type Message struct {
	ChannelID string `json:"channel_id"`
	EventID   int64  `json:"event_id"`
	Timestamp int64  `json:"timestamp"`
}

// Publisher sends "channel changed" notifications to the shared broadcast
// medium. Delivery is at-most-once and carries no acknowledgment.
type Publisher interface {
	Publish(ctx context.Context, channelID string, eventID int64) error
}

// DefaultTopic is the broadcast topic used when none is configured.
const DefaultTopic = "longpoll:events"

// Config is the broadcast medium configuration.
type Config struct {
	Topic          string        `env:"LONGPOLL_SIGNAL_TOPIC" envDefault:"longpoll:events"` // Topic is the pub/sub channel notifications are published to.
	PublishTimeout time.Duration `env:"LONGPOLL_SIGNAL_TIMEOUT" envDefault:"5s"`            // PublishTimeout bounds a single publish call.
}

// RedisPublisher implements Publisher over redis pub/sub. A publish failure
// never affects already-durable events; it only delays discovery until the
// gateway's next poll.
type RedisPublisher struct {
	client  redis.UniversalClient
	topic   string
	timeout time.Duration
}

// NewRedisPublisher creates a Publisher on the given redis client.
func NewRedisPublisher(client redis.UniversalClient, cfg Config) (*RedisPublisher, error) {
	if client == nil {
		return nil, ErrClientNil
	}
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return &RedisPublisher{
		client:  client,
		topic:   topic,
		timeout: cfg.PublishTimeout,
	}, nil
}

// Publish sends the wake-up message. The timestamp is assigned here, at
// publish time, not at event creation.
func (p *RedisPublisher) Publish(ctx context.Context, channelID string, eventID int64) error {
	if channelID == "" {
		return ErrEmptyChannelID
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	body, err := json.Marshal(Message{
		ChannelID: channelID,
		EventID:   eventID,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return errors.Join(ErrFailedToPublish, err)
	}

	if err := p.client.Publish(ctx, p.topic, body).Err(); err != nil {
		return errors.Join(ErrFailedToPublish, err)
	}
	return nil
}
