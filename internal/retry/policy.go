// Package retry provides an injectable retry policy for transient
// service failures.
package retry

import "time"

// DefaultMaxAttempts is the default attempt budget.
const DefaultMaxAttempts = 3

// DefaultBaseDelay is the default backoff unit; attempt n waits n times this.
const DefaultBaseDelay = 5 * time.Second

// Policy decides whether and how to retry a failed operation. The zero
// value is unusable; construct with Default and override fields as needed.
// Sleep is injectable so tests can run with a fake clock.
type Policy struct {
	// MaxAttempts is the total attempt budget, including the first call.
	MaxAttempts int

	// BaseDelay is the backoff unit. The wait before attempt n+1 is
	// BaseDelay multiplied by n.
	BaseDelay time.Duration

	// Retryable reports whether the error is worth another attempt.
	// Non-retryable errors are returned immediately.
	Retryable func(error) bool

	// Sleep blocks for the backoff delay. The wait is a plain blocking
	// delay, not cancellable mid-wait.
	Sleep func(time.Duration)
}

// Default returns a policy with the standard attempt budget and backoff.
// Retryable must still be supplied by the caller.
func Default(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Retryable:   retryable,
		Sleep:       time.Sleep,
	}
}

// Do runs fn up to MaxAttempts times, backing off between retryable
// failures. It returns nil on the first success, the error immediately on
// a non-retryable failure, and the final error once the budget is spent.
// OnRetry, when set, observes each scheduled retry.
func (p Policy) Do(fn func() error, onRetry func(attempt int, wait time.Duration, err error)) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			return err
		}

		wait := p.BaseDelay * time.Duration(attempt)
		if onRetry != nil {
			onRetry(attempt, wait, err)
		}
		sleep(wait)
	}
	return err
}
