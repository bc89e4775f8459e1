package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// StatusError is returned by [DoPostSync] when the server answers with a
// status outside the 2xx range. Body holds the raw response body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, TruncateString(e.Body, DefaultMaxStringLength))
}

// StatusCode returns the HTTP status carried by err, or 0 if err does not
// wrap a [*StatusError].
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// RequestOption customizes the outgoing request of [DoPostSync].
type RequestOption func(*http.Request)

// WithHeader sets a request header. Empty values are skipped so callers can
// pass optional credentials unconditionally.
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		if value != "" {
			req.Header.Set(key, value)
		}
	}
}

// DoPostSync performs a synchronous HTTP POST request with a JSON body and
// decodes the JSON response into OutputStruct.
//
// Error handling:
//   - transport failures (connection refused, DNS, context cancellation) are
//     wrapped with %w so callers can classify them with errors.As / errors.Is;
//   - non-2xx responses return a [*StatusError] together with the response;
//   - decoding errors include a preview of the body.
//
// The response body is always closed; a close error is logged and never
// overrides the primary error.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, body any, opts ...RequestOption) (*http.Response, *OutputStruct, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)
	if err != nil {
		slog.DebugContext(ctx, "http request failed",
			slog.String("url", url),
			slog.Duration("duration", requestDuration),
			slog.String("error", err.Error()),
		)
		return res, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}

	slog.DebugContext(ctx, "http response received",
		slog.String("url", url),
		slog.Int("status", res.StatusCode),
		slog.Int("body_size", len(respBody)),
		slog.Duration("duration", requestDuration),
	)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, &StatusError{StatusCode: res.StatusCode, Body: string(respBody)}
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s", res.StatusCode, err, TruncateString(string(respBody), DefaultMaxStringLength))
	}

	return res, &resStruct, nil
}

// CloseWithLog closes c and logs a failure instead of returning it.
func CloseWithLog(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
