package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// ErrRetryExhausted is matched by every error returned from [Policy.Invoke]
// once the policy has given up on the operation. The concrete error is an
// [*ExhaustedError] that also unwraps to the last operation error, so callers
// can use [errors.Is] / [errors.As] to inspect the root cause.
var ErrRetryExhausted = errors.New("tabex: all retry attempts exhausted")

// ExhaustedError is the terminal failure of a retried operation.
type ExhaustedError struct {
	// Attempts is the number of times the operation was invoked.
	Attempts int
	// Err is the error returned by the last attempt.
	Err error
	// Connectivity reports whether Err was classified as a network failure.
	Connectivity bool
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempt(s): %v", ErrRetryExhausted.Error(), e.Attempts, e.Err)
}

// Unwrap returns the last operation error.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRetryExhausted) hold for any ExhaustedError.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// connectivityMarkers are matched case-insensitively against error text for
// errors that lost their type on the way up (provider SDKs, proxies).
var connectivityMarkers = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network",
	"timeout",
	"timed out",
	"fetch failed",
	"econnrefused",
	"etimedout",
	"enotfound",
}

// IsConnectivityError reports whether err is a transient network failure:
// the service could not be reached or did not answer in time.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	// *url.Error implements net.Error whatever it wraps, so a bad scheme or
	// a rejected certificate would pass as a network failure. Classify the
	// transport error it carries instead.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Err == nil {
			return false
		}
		err = urlErr.Err
	}

	// *net.OpError, *net.DNSError and client timeouts implement net.Error.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range connectivityMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
