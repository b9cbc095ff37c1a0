package signal

import "errors"

var (
	// ErrClientNil is returned when a nil redis client is provided.
	ErrClientNil = errors.New("signal: redis client cannot be nil")

	// ErrEmptyChannelID is returned when publishing without a channel.
	ErrEmptyChannelID = errors.New("signal: channel id cannot be empty")

	// ErrFailedToPublish is returned when the broadcast medium rejects the message.
	ErrFailedToPublish = errors.New("signal: failed to publish notification")
)
