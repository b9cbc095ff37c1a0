package eventstore

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore implements Store in memory for testing and local development.
// It mirrors PGStore semantics: one monotonic offset sequence shared by all
// channels, never reset by deletion.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	events []Event
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, channelID, eventType string, payload Payload) (Event, error) {
	if channelID == "" {
		return Event{}, ErrEmptyChannelID
	}
	if eventType == "" {
		eventType = DefaultType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	event := Event{
		ID:        s.nextID,
		ChannelID: channelID,
		Type:      eventType,
		Payload:   clonePayload(payload),
		CreatedAt: time.Now(),
	}
	s.events = append(s.events, event)

	return copyOf(event), nil
}

func (s *MemoryStore) Updates(_ context.Context, channelID string, fromOffset int64, limit int, types ...string) ([]Event, error) {
	if channelID == "" {
		return nil, ErrEmptyChannelID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		if len(out) == limit {
			break
		}
		if e.ChannelID != channelID || e.ID <= fromOffset {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, e.Type) {
			continue
		}
		out = append(out, copyOf(e))
	}
	return out, nil
}

func (s *MemoryStore) LastOffset(_ context.Context, channelID string, types ...string) (int64, error) {
	if channelID == "" {
		return 0, ErrEmptyChannelID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var offset int64
	for _, e := range s.events {
		if e.ChannelID != channelID {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, e.Type) {
			continue
		}
		if e.ID > offset {
			offset = e.ID
		}
	}
	return offset, nil
}

func (s *MemoryStore) LastEvents(_ context.Context, channelID string, count int, types ...string) ([]Event, error) {
	if channelID == "" {
		return nil, ErrEmptyChannelID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Event
	for _, e := range s.events {
		if e.ChannelID != channelID {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, e.Type) {
			continue
		}
		matched = append(matched, e)
	}

	if count < len(matched) {
		matched = matched[len(matched)-count:]
	}

	out := make([]Event, 0, len(matched))
	for _, e := range matched {
		out = append(out, copyOf(e))
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, f Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		kept    []Event
		deleted int64
	)
	for _, e := range s.events {
		if matches(e, f) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return deleted, nil
}

func matches(e Event, f Filter) bool {
	if f.ChannelID != "" && e.ChannelID != f.ChannelID {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, e.Type) {
		return false
	}
	if !f.OlderThan.IsZero() && !e.CreatedAt.Before(f.OlderThan) {
		return false
	}
	return true
}

// copyOf clones an event so readers cannot mutate stored payloads.
func copyOf(e Event) Event {
	e.Payload = clonePayload(e.Payload)
	return e
}
