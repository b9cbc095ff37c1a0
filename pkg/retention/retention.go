package retention

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/longpoll/pkg/eventstore"
)

// Policy deletes events older than TTL, optionally scoped to a channel
// and/or a set of event types. Cleanup is idempotent: re-running with the
// same TTL removes only newly aged events and an empty result is not an
// error.
type Policy struct {
	store  eventstore.Store
	ttl    time.Duration
	scope  eventstore.Filter
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Policy.
type Option func(*Policy)

// WithChannel scopes cleanup to a single channel.
func WithChannel(channelID string) Option {
	return func(p *Policy) { p.scope.ChannelID = channelID }
}

// WithTypes scopes cleanup to the given event types.
func WithTypes(types ...string) Option {
	return func(p *Policy) { p.scope.Types = types }
}

// WithLogger sets the policy's logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Policy) {
		if log != nil {
			p.logger = log
		}
	}
}

// New creates a retention policy deleting events older than ttl.
func New(store eventstore.Store, ttl time.Duration, opts ...Option) (*Policy, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	p := &Policy{
		store:  store,
		ttl:    ttl,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Cleanup deletes events aged past the TTL and returns how many went.
func (p *Policy) Cleanup(ctx context.Context) (int64, error) {
	f := p.scope
	f.OlderThan = p.now().Add(-p.ttl)

	deleted, err := p.store.Delete(ctx, f)
	if err != nil {
		return 0, errors.Join(ErrCleanupFailed, err)
	}
	if deleted > 0 {
		p.logger.InfoContext(ctx, "retention cleanup removed events",
			slog.Int64("deleted", deleted),
			slog.String("channel_id", f.ChannelID),
			slog.Duration("ttl", p.ttl))
	}
	return deleted, nil
}

// Runner invokes Cleanup on a fixed interval until the context is done.
// The core never schedules itself; this is the optional in-process trigger
// for deployments without an external cron.
type Runner struct {
	policy   *Policy
	interval time.Duration
}

// NewRunner wraps a policy with a periodic trigger.
func NewRunner(policy *Policy, interval time.Duration) (*Runner, error) {
	if policy == nil {
		return nil, ErrPolicyNil
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &Runner{policy: policy, interval: interval}, nil
}

// Run blocks, running cleanup every interval. Suitable for errgroup.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.policy.Cleanup(ctx); err != nil {
				r.policy.logger.ErrorContext(ctx, "retention cleanup failed",
					slog.String("error", err.Error()))
			}
		}
	}
}
