package httputil

import (
	"context"
	"errors"
	"time"
)

// Transient marks a layer download error worth another attempt: connection
// failures, 5xx responses and CDN rate limits. Permanent failures (404,
// malformed request) must not be wrapped, they abort the backoff loop.
type Transient struct{ Err error }

func (e *Transient) Error() string { return e.Err.Error() }
func (e *Transient) Unwrap() error { return e.Err }

// IsTransient reports whether err carries a [Transient] marker anywhere in
// its chain.
func IsTransient(err error) bool {
	return errors.As(err, new(*Transient))
}

// Backoff paces repeated download attempts. The delay doubles after each
// transient failure, capped at Cap.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Cap      time.Duration
}

// DownloadBackoff is the policy for Natural Earth layer downloads: the CDN
// recovers quickly from hiccups, so attempts start dense and the delay is
// capped well below a typical request timeout.
func DownloadBackoff() Backoff {
	return Backoff{Attempts: 4, Initial: 500 * time.Millisecond, Cap: 4 * time.Second}
}

// Do runs fn until it succeeds, returns a permanent error, the attempts are
// exhausted, or ctx is cancelled. Only [Transient] errors trigger another
// attempt; the last transient error is returned after exhaustion.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Initial

	var lastErr error
	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsTransient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				if delay *= 2; b.Cap > 0 && delay > b.Cap {
					delay = b.Cap
				}
			}
		}
	}
	return lastErr
}
