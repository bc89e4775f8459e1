package extract

import (
	"context"
	"fmt"

	"github.com/leofalp/tabex/providers/ai"
)

// ModelFunc is the model-call boundary: it sends doc together with prompt
// and returns the raw response text. Errors may be transient (network) or
// permanent (authentication); the retry policy decides what to do.
type ModelFunc func(ctx context.Context, doc Document, prompt string) (string, error)

// ProviderModel adapts an [ai.Provider] to a ModelFunc. The prompt comes
// first and the document follows as an inline part. With [DialectJSON] the
// provider is asked for a JSON response following [Dialect.ResponseSchema].
func ProviderModel(provider ai.Provider, model string, dialect Dialect) ModelFunc {
	return func(ctx context.Context, doc Document, prompt string) (string, error) {
		request := ai.ChatRequest{
			Model: model,
			Messages: []ai.Message{{
				Role: ai.RoleUser,
				ContentParts: []ai.ContentPart{
					ai.NewTextPart(prompt),
					ai.NewInlinePart(doc.MimeType, doc.Data),
				},
			}},
		}
		if dialect == DialectJSON {
			request.ResponseFormat = &ai.ResponseFormat{
				Type:   "json_object",
				Schema: dialect.ResponseSchema(),
			}
		}

		response, err := provider.SendMessage(ctx, request)
		if err != nil {
			return "", err
		}
		if response == nil {
			return "", fmt.Errorf("provider returned no response")
		}
		return response.Content, nil
	}
}
