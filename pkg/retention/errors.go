package retention

import "errors"

var (
	// ErrStoreNil is returned when a nil event store is provided.
	ErrStoreNil = errors.New("retention: event store cannot be nil")

	// ErrInvalidTTL is returned when the TTL is zero or negative.
	ErrInvalidTTL = errors.New("retention: ttl must be positive")

	// ErrPolicyNil is returned when a nil policy is given to a runner.
	ErrPolicyNil = errors.New("retention: policy cannot be nil")

	// ErrInvalidInterval is returned when the runner interval is not positive.
	ErrInvalidInterval = errors.New("retention: interval must be positive")

	// ErrCleanupFailed is returned when the underlying delete fails.
	ErrCleanupFailed = errors.New("retention: cleanup failed")
)
