package modeladapter

import (
	"context"

	"github.com/germanamz/cryptocontent/pkg/modeladapter/usage"
)

// Request is the normalized, provider-agnostic generation input. All fields
// are resolved by the caller; adapters never apply defaults of their own.
type Request struct {
	Prompt       string  // User prompt.
	SystemPrompt string  // System instructions; empty means none.
	MaxTokens    int     // Maximum response length in tokens.
	Temperature  float64 // Sampling temperature in [0, 1].
	JSONMode     bool    // Ask for a JSON object reply. Only some providers honor it.
}

// Result is the normalized generation output. Text is never empty when the
// accompanying error is nil.
type Result struct {
	Text  string
	Usage usage.TokenCount
}

// Generator turns a normalized Request into generated text.
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// UsageReporter provides token usage information from a generator.
// Generators that embed ModelAdapter implement this interface automatically.
type UsageReporter interface {
	UsageTracker() *usage.Tracker
}

// RecordUsage stores the usage reported by the upstream. When the upstream
// reported nothing, the counts are estimated from the prompt and reply text.
func RecordUsage(t *usage.Tracker, req Request, text string, reported usage.TokenCount) usage.TokenCount {
	tc := reported
	if tc.Total() == 0 {
		tc = usage.TokenCount{
			PromptTokens:     CountTokens(req.SystemPrompt) + CountTokens(req.Prompt),
			CompletionTokens: CountTokens(text),
			Estimated:        true,
		}
	}

	t.Add(tc)

	return tc
}
