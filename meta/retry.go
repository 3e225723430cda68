package meta

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// RetryOptions configures RetryingProxy behavior.
type RetryOptions struct {
	// MaxRetries bounds how many times a failed call is retried.
	MaxRetries uint64

	// BaseDelay seeds the fibonacci backoff between attempts.
	BaseDelay time.Duration

	// RateLimit, when positive, bounds outgoing coordinator calls per
	// second across all callers of this proxy. Zero disables limiting.
	RateLimit rate.Limit

	// RateBurst is the limiter burst size; defaults to 1 when limiting is
	// enabled.
	RateBurst int

	// IsRetryable classifies errors. The default retries everything except
	// context cancellation; coordinator leader churn surfaces as transient
	// transport errors that heal on re-dial.
	IsRetryable func(error) bool
}

// DefaultRetryOptions contains the default retry configuration.
var DefaultRetryOptions = RetryOptions{
	MaxRetries: 4,
	BaseDelay:  50 * time.Millisecond,
}

// RetryingProxy decorates a Proxy with bounded fibonacci-backoff retries and
// an optional client-side rate limit. Not-found answers are responses, not
// errors, so they pass through without retrying.
type RetryingProxy struct {
	next    Proxy
	opts    RetryOptions
	limiter *rate.Limiter
}

// Compile-time check to ensure RetryingProxy satisfies the proxy contract.
var _ Proxy = (*RetryingProxy)(nil)

// NewRetryingProxy wraps next with retry behavior.
func NewRetryingProxy(next Proxy, optFns ...func(o *RetryOptions)) *RetryingProxy {
	opts := DefaultRetryOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(opts.RateLimit, burst)
	}

	return &RetryingProxy{
		next:    next,
		opts:    opts,
		limiter: limiter,
	}
}

// GetIndexByKey resolves a definition by its logical coordinates.
func (p *RetryingProxy) GetIndexByKey(ctx context.Context, key IndexKey) (*GetIndexResponse, error) {
	return p.call(ctx, func(ctx context.Context) (*GetIndexResponse, error) {
		return p.next.GetIndexByKey(ctx, key)
	})
}

// GetIndexByID resolves a definition by its numeric id.
func (p *RetryingProxy) GetIndexByID(ctx context.Context, id int64) (*GetIndexResponse, error) {
	return p.call(ctx, func(ctx context.Context) (*GetIndexResponse, error) {
		return p.next.GetIndexByID(ctx, id)
	})
}

func (p *RetryingProxy) call(ctx context.Context, fn func(ctx context.Context) (*GetIndexResponse, error)) (*GetIndexResponse, error) {
	var resp *GetIndexResponse

	b := retry.NewFibonacci(p.opts.BaseDelay)
	err := retry.Do(ctx, retry.WithMaxRetries(p.opts.MaxRetries, b), func(ctx context.Context) error {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		r, err := fn(ctx)
		if err != nil {
			if p.retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *RetryingProxy) retryable(err error) bool {
	if p.opts.IsRetryable != nil {
		return p.opts.IsRetryable(err)
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
