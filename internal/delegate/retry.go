package delegate

import (
	"time"

	"github.com/festwork/gala/internal/config"
)

// RetryPolicy decides whether a failed assignment gets another attempt.
// attempt is the number of attempts already made (1 after the first call);
// the returned duration is the delay before the next attempt.
type RetryPolicy interface {
	Next(attempt int) (time.Duration, bool)
}

// NoRetry performs a single attempt per assignment.
type NoRetry struct{}

// Next always declines a retry.
func (NoRetry) Next(int) (time.Duration, bool) {
	return 0, false
}

// FixedRetry allows up to Attempts additional attempts with a constant
// delay between them.
type FixedRetry struct {
	// Attempts is the number of additional attempts after the first.
	Attempts int
	// Delay is the wait before each additional attempt.
	Delay time.Duration
}

// Next grants a retry while the attempt budget lasts.
func (r FixedRetry) Next(attempt int) (time.Duration, bool) {
	if attempt > r.Attempts {
		return 0, false
	}
	return r.Delay, true
}

// BackoffRetry allows up to Attempts additional attempts, doubling the
// delay each time up to Max.
type BackoffRetry struct {
	// Attempts is the number of additional attempts after the first.
	Attempts int
	// Base is the delay before the first retry.
	Base time.Duration
	// Max caps the delay; zero means uncapped.
	Max time.Duration
}

// Next grants a retry while the attempt budget lasts, with the delay
// doubling per attempt.
func (r BackoffRetry) Next(attempt int) (time.Duration, bool) {
	if attempt > r.Attempts {
		return 0, false
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := r.Base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if r.Max > 0 && delay >= r.Max {
			delay = r.Max
			break
		}
	}
	if r.Max > 0 && delay > r.Max {
		delay = r.Max
	}
	return delay, true
}

// PolicyFromConfig builds the retry policy named in the delegation
// configuration. Unknown names fall back to no retry.
func PolicyFromConfig(cfg config.DelegationConfig) RetryPolicy {
	switch cfg.RetryPolicy {
	case "fixed":
		return FixedRetry{Attempts: cfg.RetryAttempts, Delay: cfg.RetryDelay}
	case "backoff":
		return BackoffRetry{Attempts: cfg.RetryAttempts, Base: cfg.RetryDelay, Max: 30 * time.Second}
	default:
		return NoRetry{}
	}
}
