package cache

import (
	"context"
	"errors"
	"time"
)

// Retry settings for RetryWithBackoff. Tests shorten RetryDelay.
var (
	RetryAttempts = 3
	RetryDelay    = 100 * time.Millisecond
)

// retryableError marks a transient backend failure.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as transient so that RetryWithBackoff tries again.
// Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked with
// Retryable.
func IsRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, fails with an error not
// marked Retryable, or RetryAttempts calls have been made. The delay
// between calls starts at RetryDelay and doubles.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := RetryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= RetryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
