package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leofalp/tabex/core/parse"
	"github.com/leofalp/tabex/core/retry"
	"github.com/leofalp/tabex/core/table"
	"github.com/leofalp/tabex/internal/utils"
)

const (
	// DefaultModelName is reported in request summaries when none is set.
	DefaultModelName = "gemini-2.0-flash"

	promptPreviewChars   = 200
	responsePreviewChars = 500
)

// Option configures an Extractor.
type Option func(*Extractor)

// WithModelName sets the model name shown in request summaries.
func WithModelName(name string) Option {
	return func(e *Extractor) {
		if name != "" {
			e.modelName = name
		}
	}
}

// WithDialect selects the prompt dialect. Default: [DialectPipe].
func WithDialect(dialect Dialect) Option {
	return func(e *Extractor) {
		e.dialect = dialect
	}
}

// WithPolicy replaces the retry policy. Default: [retry.Default].
func WithPolicy(policy retry.Policy) Option {
	return func(e *Extractor) {
		e.policy = policy
	}
}

// WithChain replaces the strategy chain. Default: [parse.DefaultChain].
func WithChain(chain *parse.Chain) Option {
	return func(e *Extractor) {
		if chain != nil {
			e.chain = chain
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Extractor runs the full pipeline: validation, retried model call, strategy
// chain, normalization and fallback. It holds no mutable state and is safe
// for concurrent use.
type Extractor struct {
	model     ModelFunc
	modelName string
	dialect   Dialect
	policy    retry.Policy
	chain     *parse.Chain
	logger    *slog.Logger
}

// New returns an Extractor calling model.
func New(model ModelFunc, opts ...Option) *Extractor {
	e := &Extractor{
		model:     model,
		modelName: DefaultModelName,
		dialect:   DialectPipe,
		chain:     parse.DefaultChain(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.policy.Logger == nil {
		e.policy.Logger = e.logger
	}
	return e
}

// Dialect returns the prompt dialect in use.
func (e *Extractor) Dialect() Dialect {
	return e.dialect
}

// Extract validates doc, calls the model through the retry policy and turns
// the response into tables. The returned error is non-nil only for invalid
// input, in which case the model is never called.
func (e *Extractor) Extract(ctx context.Context, doc *Document) (*ExtractionResult, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	timer := utils.NewTimer()
	prompt := e.dialect.Prompt()
	request := e.requestSummary(doc, prompt)

	e.logger.InfoContext(ctx, "extraction started",
		slog.String("file", doc.Name),
		slog.String("mime_type", doc.MimeType),
		slog.Int("size", doc.Size()),
		slog.String("model", e.modelName),
		slog.String("dialect", string(e.dialect)),
	)

	attempts := 0
	text, err := e.policy.Invoke(ctx, func(ctx context.Context) (string, error) {
		attempts++
		return e.model(ctx, *doc, prompt)
	})
	if err != nil {
		result := failedResult(request, err)
		if result.Debug.Attempts == 0 {
			result.Debug.Attempts = attempts
		}
		result.Debug.DurationMs = timer.Stop().Milliseconds()

		e.logger.ErrorContext(ctx, "extraction failed",
			slog.String("file", doc.Name),
			slog.Int("attempts", result.Debug.Attempts),
			slog.Bool("connectivity", result.Debug.IsConnectivityError),
			slog.String("error", err.Error()),
		)
		return &result, nil
	}

	e.logger.DebugContext(ctx, "raw model response",
		slog.String("preview", utils.Preview(text, responsePreviewChars)),
	)

	result := e.ParseText(text)
	result.Debug.Request = request
	result.Debug.Attempts = attempts
	result.Debug.DurationMs = timer.Stop().Milliseconds()

	e.logger.InfoContext(ctx, "extraction finished",
		slog.String("file", doc.Name),
		slog.String("status", string(result.Debug.Status)),
		slog.String("strategy", result.Debug.Strategy),
		slog.Int("tables", len(result.Tables)),
		slog.Int("attempts", attempts),
		slog.Duration("duration", timer.GetDuration()),
	)

	return &result, nil
}

// ParseText runs the post-call pipeline on text obtained elsewhere. The
// result always has Success=true.
func (e *Extractor) ParseText(raw string) ExtractionResult {
	return ParseText(e.chain, raw)
}

// ParseText runs chain on raw, normalizes the winning tables and falls back
// to a single-cell table when no strategy matches.
func ParseText(chain *parse.Chain, raw string) ExtractionResult {
	if chain == nil {
		chain = parse.DefaultChain()
	}

	result := ExtractionResult{
		Success: true,
		Debug:   DebugInfo{Response: raw},
	}

	match, ok := chain.Extract(raw)
	if !ok {
		result.Tables = []table.Table{table.Fallback(raw)}
		result.Debug.Status = StatusFallback
		result.Debug.Error = MessageFallback
		result.Debug.Strategy = FallbackStrategy
		return result
	}

	result.Tables = table.NormalizeAll(match.Tables)
	result.Debug.Strategy = match.Strategy
	result.Debug.Status = StatusSuccess
	if match.Degraded {
		result.Debug.Status = StatusPartial
		result.Debug.Error = MessagePartial
	}
	return result
}

func (e *Extractor) requestSummary(doc *Document, prompt string) string {
	return fmt.Sprintf("Request to Gemini:\nModel: %s\nFile: %s (%s, %d bytes)\nPrompt: %s",
		e.modelName, doc.Name, doc.MimeType, doc.Size(), utils.Preview(prompt, promptPreviewChars))
}
