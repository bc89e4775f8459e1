package slogobs

import (
	"fmt"
	"log/slog"
	"strings"
)

// Environment variables consulted by [LevelFromEnv], in priority order.
const (
	EnvLogLevel         = "TABEX_LOG_LEVEL"
	EnvLogLevelFallback = "LOG_LEVEL"
)

// ParseLevel parses DEBUG, INFO, WARN, WARNING or ERROR, ignoring case and
// surrounding whitespace. The boolean is false for anything else, in which
// case the returned level is INFO.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// LevelFromEnv reads the minimum level from TABEX_LOG_LEVEL, then LOG_LEVEL.
// It defaults to INFO.
func LevelFromEnv() slog.Level {
	level, _ := ParseLevel(firstEnv(EnvLogLevel, EnvLogLevelFallback))
	return level
}

// LevelString renders a level as a fixed set of upper-case names.
func LevelString(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	case level == slog.LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("ERROR+%d", level-slog.LevelError)
	}
}
