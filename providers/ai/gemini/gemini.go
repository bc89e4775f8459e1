package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/leofalp/tabex/internal/utils"
	"github.com/leofalp/tabex/providers/ai"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is used when a request names no model.
	DefaultModel = "gemini-2.0-flash"
)

var (
	// ErrMissingAPIKey is returned by SendMessage when no API key is configured.
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

	// ErrNoCandidates is returned when Gemini answers without any candidate.
	ErrNoCandidates = errors.New("gemini returned no candidates")
)

// BlockedError reports a prompt rejected by Gemini's safety filters.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return "gemini blocked the prompt: " + e.Reason
}

// GeminiProvider implements the ai.Provider interface for Google's Gemini API.
type GeminiProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a new Gemini provider instance with default values from environment.
// Environment variables:
//   - GEMINI_API_KEY: API key for authentication (GOOGLE_API_KEY is used if unset)
//   - GEMINI_API_BASE_URL: Base URL for API (optional, defaults to Google's API)
func New() *GeminiProvider {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &GeminiProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the provider.
func (p *GeminiProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *GeminiProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *GeminiProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// HasAPIKey reports whether an API key is configured.
func (p *GeminiProvider) HasAPIKey() bool {
	return p.apiKey != ""
}

// SendMessage implements the ai.Provider interface.
// It sends a chat request to the Gemini API and returns the response.
// Non-2xx answers are returned as *utils.StatusError.
func (p *GeminiProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	model := request.Model
	if model == "" {
		model = DefaultModel
	}

	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, model)

	slog.DebugContext(ctx, "Gemini provider preparing request",
		slog.String("model", model),
		slog.Int("messages", len(request.Messages)),
	)

	httpResponse, resp, err := utils.DoPostSync[generateContentResponse](
		ctx,
		p.client,
		url,
		requestToGemini(request),
		utils.WithHeader("x-goog-api-key", p.apiKey),
	)
	if err != nil {
		return nil, err
	}

	if resp == nil {
		return nil, fmt.Errorf("empty response from Gemini API: %s", httpResponse.Status)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, &BlockedError{Reason: resp.PromptFeedback.BlockReason}
		}
		return nil, ErrNoCandidates
	}

	result := geminiToGeneric(*resp)
	if result.Model == "" {
		result.Model = model
	}

	return result, nil
}
