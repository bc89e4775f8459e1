// Package retry wraps a single call to the extraction model in a bounded,
// strictly sequential retry loop with exponential backoff.
//
// A [Policy] is a plain value: callers build one (or use [Default]) and pass
// it to whatever issues the model call. Backoff waits are context-aware, so a
// cancelled request stops waiting immediately and never blocks other
// requests.
//
// # Usage
//
//	policy := retry.Policy{MaxAttempts: 3, InitialDelay: time.Second}
//	text, err := policy.Invoke(ctx, func(ctx context.Context) (string, error) {
//	    return model(ctx, doc, prompt)
//	})
//	if errors.Is(err, retry.ErrRetryExhausted) {
//	    var exhausted *retry.ExhaustedError
//	    errors.As(err, &exhausted)
//	    // exhausted.Connectivity tells whether the service was unreachable
//	}
package retry
