// Package slogobs builds the structured loggers used across tabex.
//
// Loggers are plain *slog.Logger values backed by a [Handler] that renders
// records in one of three formats: compact single lines for development,
// indented multi-line output for debugging, and JSON for log aggregation.
// The format and minimum level default to TABEX_LOG_FORMAT / LOG_FORMAT and
// TABEX_LOG_LEVEL / LOG_LEVEL, and can be overridden with [WithFormat] and
// [WithLevel]. The main entry point is [NewLogger].
package slogobs
