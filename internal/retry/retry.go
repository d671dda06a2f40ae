// Package retry wraps transfer attempts with bounded retry and linear backoff.
package retry

import (
	"context"
	"time"

	uperrors "github.com/grassyhq/uplink/errors"
)

// Policy retries an operation up to MaxAttempts times. Attempt k (for k >= 2)
// waits k*BaseDelay before running. Only failures that can succeed on retry
// are retried: transport-level errors and 5xx responses. 4xx responses and
// non-transfer errors surface immediately.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first
	MaxAttempts int

	// BaseDelay is the backoff unit; attempt k waits k*BaseDelay
	BaseDelay time.Duration
}

// Default matches the upload client defaults: three attempts, two-second unit.
var Default = Policy{MaxAttempts: 3, BaseDelay: 2 * time.Second}

// Do runs op until it succeeds, fails non-retryably, or attempts are
// exhausted. The last observed error is returned on exhaustion. Waiting
// between attempts respects ctx; an attempt already started is not
// interrupted by Do itself.
func (p Policy) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if werr := p.wait(ctx, attempt); werr != nil {
				return werr
			}
		}

		err = op(ctx)
		if err == nil {
			return nil
		}
		if !uperrors.IsRetryable(err) {
			return err
		}
	}
	return err
}

// wait sleeps for the attempt's backoff, aborting early when ctx ends.
func (p Policy) wait(ctx context.Context, attempt int) error {
	delay := time.Duration(attempt) * p.BaseDelay
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
