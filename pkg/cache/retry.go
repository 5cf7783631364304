package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a cache backend cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// retryAttempts bounds every retried operation. dialBackoff is the first
// wait while a server is still starting; commandBackoff is the first wait
// between attempts of a single Get, Set or Delete.
var (
	retryAttempts  = 3
	dialBackoff    = time.Second
	commandBackoff = 50 * time.Millisecond
)

// transientError marks a failure worth another attempt.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// transient wraps err so retry tries again; nil stays nil.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

func isTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// retry calls fn until it succeeds, returns a non-transient error, or
// retryAttempts is exhausted. The wait starts at backoff and doubles after
// each failure. The last error is returned with its transient marker
// stripped.
func retry(ctx context.Context, backoff time.Duration, fn func() error) error {
	wait := backoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		if attempt >= retryAttempts {
			return errors.Unwrap(err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			wait *= 2
		}
	}
}
