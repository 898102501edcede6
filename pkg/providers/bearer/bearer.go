// Package bearer implements the modeladapter.Generator interface for
// OpenAI-compatible chat completion APIs authenticated with a bearer token,
// such as the Nous Research Hermes inference API.
package bearer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/germanamz/cryptocontent/pkg/modeladapter"
	"github.com/germanamz/cryptocontent/pkg/modeladapter/usage"
)

// HermesBaseURL is the base URL of the Nous Research inference API.
const HermesBaseURL = "https://inference-api.nousresearch.com"

// CompletionsPath is appended to the configured base URL.
const CompletionsPath = "/v1/chat/completions"

var _ modeladapter.Generator = (*Adapter)(nil)

// Adapter sends chat completions to a bearer-token REST endpoint.
// Request.JSONMode is ignored: the endpoint contract has no response format.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter posting to baseURL + CompletionsPath.
// A trailing slash on baseURL is dropped. A nil client falls back to a
// client bounded by modeladapter.DefaultTimeout.
func New(baseURL, apiKey, model string, client *http.Client) *Adapter {
	a := &Adapter{
		ModelAdapter: modeladapter.New(strings.TrimRight(baseURL, "/"), modeladapter.Auth{Key: apiKey}, client),
	}
	a.Name = model
	return a
}

// Generate posts the request and returns choices[0].message.content.
func (b *Adapter) Generate(ctx context.Context, req modeladapter.Request) (modeladapter.Result, error) {
	body := chatRequest{
		Model:       b.Name,
		Messages:    convertMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	var resp chatResponse
	if err := b.PostJSON(ctx, CompletionsPath, body, &resp); err != nil {
		return modeladapter.Result{}, fmt.Errorf("bearer: %w", err)
	}

	if len(resp.Choices) == 0 {
		return modeladapter.Result{}, fmt.Errorf("bearer: %w", modeladapter.Malformed("empty choices in response"))
	}

	content := resp.Choices[0].Message.Content
	if content == nil || strings.TrimSpace(*content) == "" {
		return modeladapter.Result{}, fmt.Errorf("bearer: %w", modeladapter.Malformed("choices[0].message.content is empty"))
	}

	tc := modeladapter.RecordUsage(&b.Usage, req, *content, usage.TokenCount{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	})

	return modeladapter.Result{Text: *content, Usage: tc}, nil
}

// API request/response types.

type chatRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string   `json:"id"`
	Choices []choice `json:"choices"`
	Usage   apiUsage `json:"usage"`
}

type choice struct {
	Message      respMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type respMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// convertMessages builds the system (optional) and user messages.
func convertMessages(req modeladapter.Request) []apiMessage {
	msgs := make([]apiMessage, 0, 2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, apiMessage{Role: "system", Content: req.SystemPrompt})
	}
	return append(msgs, apiMessage{Role: "user", Content: req.Prompt})
}
