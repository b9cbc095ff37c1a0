package httpapi

import "errors"

var (
	// ErrFacadeNil is returned when a nil query facade is provided.
	ErrFacadeNil = errors.New("httpapi: query facade cannot be nil")

	// ErrEmptySecret is returned when the access secret is not configured.
	ErrEmptySecret = errors.New("httpapi: access secret cannot be empty")
)
