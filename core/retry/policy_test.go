package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"syscall"
	"testing"
	"time"
)

// ========== Helpers ==========

// sequence returns an Operation that pops one result per call.
type sequence struct {
	texts     []string
	errors    []error
	callCount int
}

func (s *sequence) op(_ context.Context) (string, error) {
	index := s.callCount
	s.callCount++

	if index < len(s.errors) && s.errors[index] != nil {
		return "", s.errors[index]
	}

	if index < len(s.texts) {
		return s.texts[index], nil
	}

	return "default", nil
}

func quietPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts:  maxAttempts,
		InitialDelay: time.Millisecond,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ========== Policy.Invoke ==========

// TestInvoke_SuccessOnFirstTry verifies that a successful call is returned
// without any retry.
func TestInvoke_SuccessOnFirstTry(t *testing.T) {
	seq := &sequence{texts: []string{"ok"}}

	text, err := quietPolicy(3).Invoke(context.Background(), seq.op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "ok" {
		t.Errorf("expected 'ok', got %q", text)
	}
	if seq.callCount != 1 {
		t.Errorf("expected 1 call, got %d", seq.callCount)
	}
}

// TestInvoke_RetryThenSuccess verifies that intermediate failures are
// swallowed and the eventual success is returned.
func TestInvoke_RetryThenSuccess(t *testing.T) {
	seq := &sequence{
		errors: []error{errors.New("boom"), errors.New("boom again"), nil},
		texts:  []string{"", "", "recovered"},
	}

	text, err := quietPolicy(3).Invoke(context.Background(), seq.op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "recovered" {
		t.Errorf("expected 'recovered', got %q", text)
	}
	if seq.callCount != 3 {
		t.Errorf("expected 3 calls, got %d", seq.callCount)
	}
}

// TestInvoke_ExhaustsAttempts verifies that the last error is surfaced,
// wrapped in an ExhaustedError, after MaxAttempts calls.
func TestInvoke_ExhaustsAttempts(t *testing.T) {
	first := errors.New("first failure")
	last := errors.New("last failure")
	seq := &sequence{errors: []error{first, first, last}}

	_, err := quietPolicy(3).Invoke(context.Background(), seq.op)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("expected ErrRetryExhausted, got %v", err)
	}
	if !errors.Is(err, last) {
		t.Errorf("expected last error to be wrapped, got %v", err)
	}
	if errors.Is(err, first) {
		t.Errorf("intermediate error must not be surfaced, got %v", err)
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *ExhaustedError, got %T", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", exhausted.Attempts)
	}
	if seq.callCount != 3 {
		t.Errorf("expected 3 calls, got %d", seq.callCount)
	}
}

// TestInvoke_NetworkErrorIsConnectivity covers the retry-exhaustion scenario:
// a call that always fails with a network error is classified as a
// connectivity failure.
func TestInvoke_NetworkErrorIsConnectivity(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}

	callCount := 0
	alwaysFail := func(_ context.Context) (string, error) {
		callCount++
		return "", netErr
	}

	_, err := quietPolicy(3).Invoke(context.Background(), alwaysFail)

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *ExhaustedError, got %T (%v)", err, err)
	}
	if !exhausted.Connectivity {
		t.Errorf("expected connectivity classification for %v", netErr)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

// TestInvoke_NonRetryableError verifies that an error rejected by Retryable
// stops the loop immediately.
func TestInvoke_NonRetryableError(t *testing.T) {
	permanent := errors.New("permanent failure")

	callCount := 0
	alwaysFail := func(_ context.Context) (string, error) {
		callCount++
		return "", permanent
	}

	policy := quietPolicy(5)
	policy.Retryable = func(err error) bool { return !errors.Is(err, permanent) }

	_, err := policy.Invoke(context.Background(), alwaysFail)
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected exactly 1 call for non-retryable error, got %d", callCount)
	}
}

// TestInvoke_ContextCancellation verifies that a cancelled context stops the
// backoff wait early and returns ctx.Err().
func TestInvoke_ContextCancellation(t *testing.T) {
	callCount := 0
	alwaysFail := func(_ context.Context) (string, error) {
		callCount++
		return "", errors.New("unavailable")
	}

	policy := quietPolicy(10)
	policy.InitialDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := policy.Invoke(ctx, alwaysFail)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", callCount)
	}
}

// TestInvoke_WaitsBetweenAttempts verifies that the backoff is actually
// applied between attempts and not after the last one.
func TestInvoke_WaitsBetweenAttempts(t *testing.T) {
	policy := quietPolicy(3)
	policy.InitialDelay = 10 * time.Millisecond

	var stamps []time.Time
	op := func(_ context.Context) (string, error) {
		stamps = append(stamps, time.Now())
		return "", errors.New("fail")
	}

	start := time.Now()
	_, _ = policy.Invoke(context.Background(), op)
	total := time.Since(start)

	if len(stamps) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(stamps))
	}
	if gap := stamps[1].Sub(stamps[0]); gap < 10*time.Millisecond {
		t.Errorf("first backoff too short: %v", gap)
	}
	if gap := stamps[2].Sub(stamps[1]); gap < 20*time.Millisecond {
		t.Errorf("second backoff too short: %v", gap)
	}
	// 10ms + 20ms of waits; a trailing 40ms wait would push this well past.
	if total > time.Second {
		t.Errorf("unexpectedly long total duration: %v", total)
	}
}

// TestInvoke_AttemptTimeout verifies that each attempt gets its own deadline
// and that a timed-out attempt is retried.
func TestInvoke_AttemptTimeout(t *testing.T) {
	policy := quietPolicy(2)
	policy.AttemptTimeout = 5 * time.Millisecond

	calls := 0
	op := func(ctx context.Context) (string, error) {
		calls++
		if _, ok := ctx.Deadline(); !ok {
			t.Error("attempt context has no deadline")
		}
		<-ctx.Done()
		return "", ctx.Err()
	}

	_, err := policy.Invoke(context.Background(), op)

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *ExhaustedError, got %v", err)
	}
	if calls != 2 || exhausted.Attempts != 2 {
		t.Errorf("calls = %d, attempts = %d, want 2", calls, exhausted.Attempts)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error %v does not wrap context.DeadlineExceeded", err)
	}
}

// ========== Defaults and backoff ==========

func TestDefault(t *testing.T) {
	p := Default()
	if p.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", p.MaxAttempts)
	}
	if p.InitialDelay != time.Second {
		t.Errorf("InitialDelay = %v, want 1s", p.InitialDelay)
	}
	if p.Retryable == nil || !p.Retryable(errors.New("x")) {
		t.Errorf("default Retryable should retry every error")
	}
	if p.Logger == nil {
		t.Errorf("default Logger should be set")
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: time.Second},
		{attempt: 1, want: 2 * time.Second},
		{attempt: 2, want: 4 * time.Second},
		{attempt: 3, want: 8 * time.Second},
	}

	p := Policy{InitialDelay: time.Second}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := p.Backoff(tt.attempt); got != tt.want {
				t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

// ========== IsConnectivityError ==========

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o deadline reached" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "connection refused errno", err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED), want: true},
		{name: "net.OpError", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: true},
		{name: "net.Error timeout", err: timeoutError{}, want: true},
		{name: "deadline exceeded", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: true},
		{name: "text only fetch failed", err: errors.New("TypeError: fetch failed"), want: true},
		{name: "text only no such host", err: errors.New("lookup api.example: no such host"), want: true},
		{name: "http 400", err: errors.New("non-2xx status 400: bad request"), want: false},
		{name: "invalid key", err: errors.New("API key not valid"), want: false},
		{name: "cancelled", err: context.Canceled, want: false},
		{
			name: "url error wrapping dial failure",
			err:  &url.Error{Op: "Post", URL: "https://api.example", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}},
			want: true,
		},
		{
			name: "url error wrapping client timeout",
			err:  fmt.Errorf("send: %w", &url.Error{Op: "Post", URL: "https://api.example", Err: timeoutError{}}),
			want: true,
		},
		{
			name: "url error with unsupported scheme",
			err:  &url.Error{Op: "Post", URL: "ftp://api.example", Err: errors.New(`unsupported protocol scheme "ftp"`)},
			want: false,
		},
		{
			name: "url error with certificate failure",
			err:  &url.Error{Op: "Post", URL: "https://api.example", Err: errors.New("tls: failed to verify certificate: x509: certificate signed by unknown authority")},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectivityError(tt.err); got != tt.want {
				t.Errorf("IsConnectivityError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExhaustedError_Message(t *testing.T) {
	err := &ExhaustedError{Attempts: 3, Err: errors.New("boom")}
	want := "tabex: all retry attempts exhausted after 3 attempt(s): boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
