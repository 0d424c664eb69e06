package client

import (
	"context"
	"fmt"
	"time"

	"swipe-match-backend/internal/apperr"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// WithRetry runs op up to maxAttempts times, doubling the wait after each
// failure starting from baseDelay. Rejections that a retry cannot fix
// (duplicate likes, invalid input) are returned at once.
func WithRetry[T any](ctx context.Context, op func(context.Context) (T, error), maxAttempts int, baseDelay time.Duration, logger zerolog.Logger) (T, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = baseDelay
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(maxAttempts-1)), ctx)

	attempt := 0
	return backoff.RetryNotifyWithData(func() (T, error) {
		attempt++
		v, err := op(ctx)
		if err != nil && !retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, b, func(err error, next time.Duration) {
		logger.Warn().
			Err(err).
			Str("context", fmt.Sprintf("Attempt %d/%d", attempt, maxAttempts)).
			Dur("retry_in", next).
			Msg("Operation failed")
	})
}

func retryable(err error) bool {
	switch apperr.KindOf(err) {
	case apperr.DuplicateLikeKind, apperr.InvalidBodyKind, apperr.InvalidPayloadKind, apperr.ValidationKind:
		return false
	}
	return true
}

// WithTimeout runs op and fails with TimeoutKind if it has not returned within d.
// op receives a context that is cancelled at the deadline.
func WithTimeout[T any](ctx context.Context, op func(context.Context) (T, error), d time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := op(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		if ctx.Err() == context.DeadlineExceeded {
			return zero, apperr.Wrap(apperr.TimeoutKind, ctx.Err(), fmt.Sprintf("operation timed out after %s", d))
		}
		return zero, ctx.Err()
	}
}
