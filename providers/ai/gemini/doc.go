// Package gemini implements the [ai.Provider] interface for Google's Gemini
// generative language API.
//
// It converts the generic [ai.ChatRequest] format to Gemini's
// generateContent wire format, sending documents and images as inlineData
// parts, and maps the first candidate back to an [ai.ChatResponse].
//
// The primary entry point is [New], which reads GEMINI_API_KEY (falling
// back to GOOGLE_API_KEY) and GEMINI_API_BASE_URL from the environment. Use
// [GeminiProvider.WithAPIKey], [GeminiProvider.WithBaseURL], or
// [GeminiProvider.WithHttpClient] to configure the provider programmatically.
package gemini
