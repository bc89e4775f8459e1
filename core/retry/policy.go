package retry

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultMaxAttempts is the number of invocations made before giving up.
	DefaultMaxAttempts = 3

	// DefaultInitialDelay is the wait after the first failed attempt.
	DefaultInitialDelay = time.Second
)

// Operation is the call being retried. It returns the raw model text.
type Operation func(ctx context.Context) (string, error)

// Policy holds the tuning parameters for retried model calls. Zero values
// are replaced with the defaults documented below when Invoke runs; the
// Policy itself is never modified.
type Policy struct {
	// MaxAttempts is the total number of invocations, including the first.
	// Default: 3.
	MaxAttempts int

	// InitialDelay is the wait after the first failure. The wait after
	// failed attempt i (0-based) is InitialDelay * 2^i. The last attempt is
	// never followed by a wait.
	// Default: 1s.
	InitialDelay time.Duration

	// AttemptTimeout bounds each invocation. A deadline already on the
	// caller's context still applies when it is shorter.
	// Default: 0, no per-attempt bound.
	AttemptTimeout time.Duration

	// Retryable returns true when an error should trigger another attempt.
	// Default: every error is retried.
	Retryable func(error) bool

	// Logger receives one warning per failed attempt.
	// Default: slog.Default().
	Logger *slog.Logger
}

// Default returns a Policy with every field set to its default.
func Default() Policy {
	return Policy{}.withDefaults()
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}

	if p.InitialDelay <= 0 {
		p.InitialDelay = DefaultInitialDelay
	}

	if p.Retryable == nil {
		p.Retryable = func(error) bool { return true }
	}

	if p.Logger == nil {
		p.Logger = slog.Default()
	}

	return p
}

// Backoff returns the wait that follows failed attempt i (0-based).
func (p Policy) Backoff(attempt int) time.Duration {
	p = p.withDefaults()
	return p.InitialDelay << attempt
}

// Invoke runs op until it succeeds, a non-retryable error occurs, or
// MaxAttempts invocations have failed. Intermediate failures are logged and
// swallowed; the terminal failure is an [*ExhaustedError] wrapping the last
// error. If ctx is cancelled while waiting, ctx.Err() is returned at once.
//
// Attempts never overlap: each one is a full re-invocation of the same call.
func (p Policy) Invoke(ctx context.Context, op Operation) (string, error) {
	p = p.withDefaults()

	var lastErr error
	attempts := 0

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			// Respect context cancellation between attempts.
			backoff := p.Backoff(attempt - 1)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		attempts++
		text, err := p.attempt(ctx, op)
		if err == nil {
			return text, nil
		}

		lastErr = err

		if !p.Retryable(err) {
			break
		}

		if attempt < p.MaxAttempts-1 {
			p.Logger.WarnContext(ctx, "model call failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", p.MaxAttempts),
				slog.Duration("backoff", p.Backoff(attempt)),
				slog.String("error", err.Error()),
			)
		}
	}

	return "", &ExhaustedError{
		Attempts:     attempts,
		Err:          lastErr,
		Connectivity: IsConnectivityError(lastErr),
	}
}

func (p Policy) attempt(ctx context.Context, op Operation) (string, error) {
	if p.AttemptTimeout <= 0 {
		return op(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
	defer cancel()
	return op(ctx)
}
