package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uperrors "github.com/grassyhq/uplink/errors"
)

func transient() error {
	return &uperrors.TransferError{StatusCode: 503}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return transient()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustionReturnsLastError(t *testing.T) {
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	last := &uperrors.TransferError{StatusCode: 500}
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 3 {
			return last
		}
		return transient()
	})

	assert.Equal(t, 3, calls)
	var te *uperrors.TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 500, te.StatusCode)
}

// TestDo_ClientErrorNotRetried verifies a 4xx failure is attempted exactly once.
func TestDo_ClientErrorNotRetried(t *testing.T) {
	policy := Policy{MaxAttempts: 5, BaseDelay: time.Millisecond}

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return &uperrors.TransferError{StatusCode: 403}
	})

	assert.Equal(t, 1, calls)
	var te *uperrors.TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 403, te.StatusCode)
}

func TestDo_NonTransferErrorNotRetried(t *testing.T) {
	policy := Policy{MaxAttempts: 5, BaseDelay: time.Millisecond}

	calls := 0
	boom := errors.New("boom")
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, boom)
}

// TestDo_LinearBackoff verifies attempt k waits k*BaseDelay, so three
// attempts accumulate at least (2+3)*BaseDelay of waiting.
func TestDo_LinearBackoff(t *testing.T) {
	base := 20 * time.Millisecond
	policy := Policy{MaxAttempts: 3, BaseDelay: base}

	start := time.Now()
	_ = policy.Do(context.Background(), func(context.Context) error {
		return transient()
	})
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 5*base)
}

func TestDo_ContextCancelsBackoff(t *testing.T) {
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- policy.Do(ctx, func(context.Context) error {
			calls++
			return transient()
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("retry did not abort on context cancellation")
	}
}

func TestDo_ZeroAttemptsStillRunsOnce(t *testing.T) {
	policy := Policy{}

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
