package signal

import (
	"context"
	"sync"
	"time"
)

// MemoryPublisher implements Publisher in memory for tests. Published
// messages are recorded and can optionally be observed on a channel, which
// stands in for a subscribed gateway.
type MemoryPublisher struct {
	mu       sync.RWMutex
	messages []Message
	failWith error
	notify   chan Message
}

// NewMemoryPublisher creates an empty in-memory publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Notify returns a buffered channel receiving every published message.
// Messages are dropped when the buffer is full, matching the at-most-once
// contract of the real medium.
func (p *MemoryPublisher) Notify(buffer int) <-chan Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.notify == nil {
		p.notify = make(chan Message, buffer)
	}
	return p.notify
}

// FailWith makes subsequent publishes return the given error.
func (p *MemoryPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failWith = err
}

func (p *MemoryPublisher) Publish(_ context.Context, channelID string, eventID int64) error {
	if channelID == "" {
		return ErrEmptyChannelID
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failWith != nil {
		return p.failWith
	}

	msg := Message{
		ChannelID: channelID,
		EventID:   eventID,
		Timestamp: time.Now().Unix(),
	}
	p.messages = append(p.messages, msg)

	if p.notify != nil {
		select {
		case p.notify <- msg:
		default:
		}
	}
	return nil
}

// Messages returns a copy of everything published so far.
func (p *MemoryPublisher) Messages() []Message {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}
