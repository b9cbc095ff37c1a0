package query

import "errors"

var (
	// ErrStoreNil is returned when a nil event store is provided.
	ErrStoreNil = errors.New("query: event store cannot be nil")

	// ErrValidation is returned when caller-supplied parameters are out of
	// range; the wrapped message names the offending field.
	ErrValidation = errors.New("query: invalid parameter")

	// ErrReadFailed is returned when the underlying store read fails.
	ErrReadFailed = errors.New("query: read failed")
)
