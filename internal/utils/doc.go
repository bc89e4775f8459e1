// Package utils provides shared low-level helpers for the tabex internals:
// a synchronous JSON POST helper used by model providers, a typed error for
// non-2xx HTTP responses, string truncation for logs and debug traces, and a
// simple elapsed-time timer.
//
// Key entry points: [DoPostSync] for JSON round-trips, [StatusError] for
// inspecting failed responses, [Preview] and [TruncateString] for shortening
// text, and [Timer] for measuring latency.
package utils
