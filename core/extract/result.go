package extract

import (
	"errors"
	"net/http"

	"github.com/leofalp/tabex/core/retry"
	"github.com/leofalp/tabex/core/table"
	"github.com/leofalp/tabex/internal/utils"
)

// Status classifies how tables were obtained.
type Status string

const (
	// StatusSuccess: a primary strategy (JSON or line protocol) matched.
	StatusSuccess Status = "success"
	// StatusPartial: only a degraded strategy matched.
	StatusPartial Status = "partial"
	// StatusFallback: nothing matched and the raw text was wrapped.
	StatusFallback Status = "fallback"
	// StatusError: the model call failed on every attempt.
	StatusError Status = "error"
)

// Messages stored in DebugInfo.Error for non-error outcomes.
const (
	MessagePartial  = "Used fallback extraction method"
	MessageFallback = "Failed to extract structured data"
)

// Suggestions shown to users after a failed model call.
const (
	SuggestionConnectivity = "Check your internet connection and try again later."
	SuggestionAuth         = "Verify that the Gemini API key is valid."
	SuggestionGeneric      = "The extraction service failed; try again or use a different file."
)

// ExtractionResult is what callers receive for every extraction, including
// failed ones. Tables is never nil.
type ExtractionResult struct {
	Success bool          `json:"success"`
	Tables  []table.Table `json:"tables"`
	Debug   DebugInfo     `json:"debug"`
}

// DebugInfo is the trace attached to every result.
type DebugInfo struct {
	Request             string `json:"request,omitempty"`
	Response            string `json:"response,omitempty"`
	Status              Status `json:"status"`
	Error               string `json:"error,omitempty"`
	IsConnectivityError bool   `json:"isConnectivityError,omitempty"`
	Suggestion          string `json:"suggestion,omitempty"`
	Strategy            string `json:"strategy,omitempty"`
	Attempts            int    `json:"attempts,omitempty"`
	DurationMs          int64  `json:"durationMs,omitempty"`
}

// FallbackStrategy is the DebugInfo.Strategy value of wrapped raw text.
const FallbackStrategy = "fallback"

// failedResult builds the Success=false result for a call that never
// returned text.
func failedResult(request string, err error) ExtractionResult {
	debug := DebugInfo{
		Request: request,
		Status:  StatusError,
		Error:   err.Error(),
	}

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		debug.Attempts = exhausted.Attempts
		debug.IsConnectivityError = exhausted.Connectivity
	} else {
		debug.IsConnectivityError = retry.IsConnectivityError(err)
	}
	debug.Suggestion = Suggest(err, debug.IsConnectivityError)

	return ExtractionResult{
		Success: false,
		Tables:  []table.Table{},
		Debug:   debug,
	}
}

// Suggest picks the user-facing hint for a failed call.
func Suggest(err error, connectivity bool) string {
	if connectivity {
		return SuggestionConnectivity
	}
	switch utils.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return SuggestionAuth
	}
	return SuggestionGeneric
}
