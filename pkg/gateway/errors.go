package gateway

import "errors"

var (
	// ErrEmptyBaseURL is returned when no gateway URL is configured.
	ErrEmptyBaseURL = errors.New("gateway: base URL cannot be empty")

	// ErrEmptySecret is returned when no access secret is configured.
	ErrEmptySecret = errors.New("gateway: access secret cannot be empty")

	// ErrEmptyChannelID is returned when requesting a token without a channel.
	ErrEmptyChannelID = errors.New("gateway: channel id cannot be empty")

	// ErrTokenRequestFailed is returned when the gateway is unreachable or
	// rejects the request.
	ErrTokenRequestFailed = errors.New("gateway: failed to obtain token")

	// ErrMalformedResponse is returned when the gateway response cannot be parsed.
	ErrMalformedResponse = errors.New("gateway: malformed token response")

	// ErrTokenNotFound is returned when the response carries no token.
	ErrTokenNotFound = errors.New("gateway: token not found in response")
)
