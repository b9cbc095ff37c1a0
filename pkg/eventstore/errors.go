package eventstore

import "errors"

var (
	// ErrEmptyChannelID is returned when an operation is called without a channel.
	ErrEmptyChannelID = errors.New("eventstore: channel id cannot be empty")

	// ErrFailedToAppendEvent is returned when the durable write fails.
	ErrFailedToAppendEvent = errors.New("eventstore: failed to append event")

	// ErrFailedToQueryEvents is returned when a range or aggregate read fails.
	ErrFailedToQueryEvents = errors.New("eventstore: failed to query events")

	// ErrFailedToDeleteEvents is returned when a filtered delete fails.
	ErrFailedToDeleteEvents = errors.New("eventstore: failed to delete events")

	// ErrFailedToEncodePayload is returned when the payload cannot be serialized.
	ErrFailedToEncodePayload = errors.New("eventstore: failed to encode payload")

	// ErrFailedToDecodePayload is returned when a stored payload cannot be parsed.
	ErrFailedToDecodePayload = errors.New("eventstore: failed to decode stored payload")
)
