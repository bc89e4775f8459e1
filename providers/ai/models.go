package ai

import (
	"encoding/base64"
	"strings"

	"github.com/leofalp/tabex/internal/jsonschema"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // Conversation, system prompt excluded
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`   // Optional response format
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
}

// Message represents a single message in a conversation. When ContentParts
// is set it takes precedence over Content.
type Message struct {
	Role         MessageRole   `json:"role"`
	Content      string        `json:"content,omitempty"`
	ContentParts []ContentPart `json:"content_parts,omitempty"`
}

// ContentType identifies the payload of a [ContentPart].
type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeImage    ContentType = "image"
	ContentTypeDocument ContentType = "document"
)

// ContentPart is one piece of a multimodal message.
type ContentPart struct {
	Type     ContentType `json:"type"`
	Text     string      `json:"text,omitempty"`
	Image    *MediaData  `json:"image,omitempty"`
	Document *MediaData  `json:"document,omitempty"`
}

// MediaData carries binary content either inline (base64 in Data) or by
// reference (URI). Providers prefer URI when both are set.
type MediaData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// NewTextPart returns a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: ContentTypeText, Text: text}
}

// NewInlinePart returns an image or document part holding raw bytes. Image
// MIME types produce an image part, anything else a document part.
func NewInlinePart(mimeType string, raw []byte) ContentPart {
	media := &MediaData{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}
	if strings.HasPrefix(mimeType, "image/") {
		return ContentPart{Type: ContentTypeImage, Image: media}
	}
	return ContentPart{Type: ContentTypeDocument, Document: media}
}

type GenerationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`       // Sampling temperature [0..2]. Lower => more deterministic.
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"` // Optional cap on output tokens
}

type ResponseFormat struct {
	Type   string             `json:"type,omitempty"`   // "text" or "json_object"
	Schema *jsonschema.Schema `json:"schema,omitempty"` // Optional shape of the JSON response; implies json_object
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
	Refusal      string `json:"refusal,omitempty"` // If the model refuses to respond (safety/policy)
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)
