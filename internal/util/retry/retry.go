package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type settings struct {
	attempts int
	delay    time.Duration
	maxDelay time.Duration
}

// Option adjusts the retry loop.
type Option func(*settings)

// WithAttempts sets the total number of attempts, including the first.
func WithAttempts(n int) Option {
	return func(s *settings) {
		s.attempts = n
	}
}

// WithDelay sets the pause before the second attempt. It doubles after
// every failure up to the maximum delay.
func WithDelay(d time.Duration) Option {
	return func(s *settings) {
		s.delay = d
	}
}

// WithMaxDelay caps the pause between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(s *settings) {
		s.maxDelay = d
	}
}

// Do runs op until it succeeds, returns a permanent error, the attempts are
// used up or ctx is done.
func Do(ctx context.Context, op func(ctx context.Context) error, opts ...Option) error {
	s := settings{attempts: 3, delay: time.Second, maxDelay: 30 * time.Second}
	for _, opt := range opts {
		opt(&s)
	}
	if s.attempts < 1 {
		s.attempts = 1
	}

	delay := s.delay
	var err error
	for attempt := 1; ; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		if attempt == s.attempts {
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("interrupted after %d attempts: %w", attempt, errors.Join(ctx.Err(), err))
		case <-timer.C:
		}
		delay *= 2
		if delay > s.maxDelay {
			delay = s.maxDelay
		}
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so that Do stops retrying. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
