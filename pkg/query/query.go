package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/longpoll/pkg/eventstore"
)

// Limits enforced before any read reaches the store.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 100

	// MaxChannelIDLength bounds channel identifiers; the schema stores
	// them in a varchar(255) column.
	MaxChannelIDLength = 255
)

// Facade is the pure read layer over the event store. It validates and
// bounds caller-supplied offsets and limits, then delegates; it never
// writes.
type Facade struct {
	store eventstore.Store
}

// New creates a read facade over the given store.
func New(store eventstore.Store) (*Facade, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	return &Facade{store: store}, nil
}

// ValidateChannelID checks the channel identifier against the facade rules.
func ValidateChannelID(channelID string) error {
	if channelID == "" {
		return fmt.Errorf("%w: channel_id is required", ErrValidation)
	}
	if len(channelID) > MaxChannelIDLength {
		return fmt.Errorf("%w: channel_id exceeds %d characters", ErrValidation, MaxChannelIDLength)
	}
	return nil
}

func validateRange(offset int64, limit int) error {
	if offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0", ErrValidation)
	}
	if limit < MinLimit || limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between %d and %d", ErrValidation, MinLimit, MaxLimit)
	}
	return nil
}

// Updates returns up to limit events with ID > offset for the channel,
// ascending. Out-of-range inputs are rejected with ErrValidation rather
// than silently clamped.
func (f *Facade) Updates(ctx context.Context, channelID string, offset int64, limit int, types ...string) ([]eventstore.Event, error) {
	if err := ValidateChannelID(channelID); err != nil {
		return nil, err
	}
	if err := validateRange(offset, limit); err != nil {
		return nil, err
	}

	events, err := f.store.Updates(ctx, channelID, offset, limit, types...)
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	return events, nil
}

// LastOffset returns the channel's newest offset, or 0 when it has none.
func (f *Facade) LastOffset(ctx context.Context, channelID string, types ...string) (int64, error) {
	if err := ValidateChannelID(channelID); err != nil {
		return 0, err
	}

	offset, err := f.store.LastOffset(ctx, channelID, types...)
	if err != nil {
		return 0, errors.Join(ErrReadFailed, err)
	}
	return offset, nil
}

// LastEvents returns the channel's most recent count events in ascending
// offset order.
func (f *Facade) LastEvents(ctx context.Context, channelID string, count int, types ...string) ([]eventstore.Event, error) {
	if err := ValidateChannelID(channelID); err != nil {
		return nil, err
	}
	if count < MinLimit || count > MaxLimit {
		return nil, fmt.Errorf("%w: count must be between %d and %d", ErrValidation, MinLimit, MaxLimit)
	}

	events, err := f.store.LastEvents(ctx, channelID, count, types...)
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	return events, nil
}
