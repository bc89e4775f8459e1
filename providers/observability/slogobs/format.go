package slogobs

import (
	"os"
	"strings"
)

// Format selects how a [Handler] renders records.
type Format string

const (
	// FormatCompact writes one line per record with the attributes as a JSON object.
	//	2026-01-02 15:04:05 INFO  extraction finished -> {"strategy":"json","tables":2}
	FormatCompact Format = "compact"

	// FormatPretty writes the message on one line and each attribute indented below it.
	//	[2026-01-02 15:04:05] INFO  | extraction finished
	//	    strategy = json
	FormatPretty Format = "pretty"

	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// Environment variables consulted by [FormatFromEnv], in priority order.
const (
	EnvLogFormat         = "TABEX_LOG_FORMAT"
	EnvLogFormatFallback = "LOG_FORMAT"
)

// ParseFormat maps a case-insensitive name to a Format.
// Unknown names resolve to FormatCompact.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPretty:
		return FormatPretty
	case FormatJSON:
		return FormatJSON
	default:
		return FormatCompact
	}
}

// FormatFromEnv reads the log format from TABEX_LOG_FORMAT, then LOG_FORMAT.
func FormatFromEnv() Format {
	return ParseFormat(firstEnv(EnvLogFormat, EnvLogFormatFallback))
}

func (f Format) String() string {
	return string(f)
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
