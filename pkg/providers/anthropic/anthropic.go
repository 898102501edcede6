// Package anthropic provides a Generator implementation for the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/germanamz/cryptocontent/pkg/modeladapter"
	"github.com/germanamz/cryptocontent/pkg/modeladapter/usage"
)

// DefaultBaseURL is the base URL for the Anthropic API.
const DefaultBaseURL = "https://api.anthropic.com"

// APIVersion is sent in the anthropic-version header.
const APIVersion = "2023-06-01"

const messagesPath = "/v1/messages"

var _ modeladapter.Generator = (*Adapter)(nil)

// Adapter implements modeladapter.Generator for the Anthropic Messages API.
//
// The system prompt travels as the top-level "system" field rather than as a
// message. Request.JSONMode is ignored: the Messages API has no response
// format switch.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the Anthropic API.
// The baseURL should be "https://api.anthropic.com" (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{
		Key:    apiKey,
		Header: "x-api-key",
	}
	a.Name = model
	a.Headers = map[string]string{
		"anthropic-version": APIVersion,
	}

	return a
}

// Generate sends the request to the Messages endpoint and returns
// content[0].text.
func (a *Adapter) Generate(ctx context.Context, req modeladapter.Request) (modeladapter.Result, error) {
	var resp apiResponse
	if err := a.PostJSON(ctx, messagesPath, a.buildRequest(req), &resp); err != nil {
		return modeladapter.Result{}, fmt.Errorf("anthropic: %w", err)
	}

	text, err := resp.text()
	if err != nil {
		return modeladapter.Result{}, fmt.Errorf("anthropic: %w", err)
	}

	tc := modeladapter.RecordUsage(&a.Usage, req, text, usage.TokenCount{
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
	})

	return modeladapter.Result{Text: text, Usage: tc}, nil
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
	Messages    []apiMessage `json:"messages"`
	System      string       `json:"system,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiContent struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(req modeladapter.Request) apiRequest {
	return apiRequest{
		Model:       a.Name,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages:    []apiMessage{{Role: "user", Content: req.Prompt}},
		System:      req.SystemPrompt,
	}
}

func (r apiResponse) text() (string, error) {
	if len(r.Content) == 0 {
		return "", modeladapter.Malformed("empty content in response")
	}

	text := r.Content[0].Text
	if text == nil || strings.TrimSpace(*text) == "" {
		return "", modeladapter.Malformed("content[0].text is empty")
	}

	return *text, nil
}
