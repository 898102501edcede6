// Package openai provides a Generator implementation for the OpenAI Chat Completions API.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/germanamz/cryptocontent/pkg/modeladapter"
	"github.com/germanamz/cryptocontent/pkg/modeladapter/usage"
)

// DefaultBaseURL is the base URL for the OpenAI API.
const DefaultBaseURL = "https://api.openai.com"

const completionsPath = "/v1/chat/completions"

var _ modeladapter.Generator = (*Adapter)(nil)

// Adapter implements modeladapter.Generator for the OpenAI Chat Completions API.
// It is the only adapter that honors Request.JSONMode.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the OpenAI API.
// The baseURL should be "https://api.openai.com" (no trailing slash).
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{Key: apiKey}
	a.Name = model

	return a
}

// Generate sends the request to the Chat Completions endpoint and returns
// choices[0].message.content.
func (a *Adapter) Generate(ctx context.Context, req modeladapter.Request) (modeladapter.Result, error) {
	var resp apiResponse
	if err := a.PostJSON(ctx, completionsPath, a.buildRequest(req), &resp); err != nil {
		return modeladapter.Result{}, fmt.Errorf("openai: %w", err)
	}

	text, err := resp.text()
	if err != nil {
		return modeladapter.Result{}, fmt.Errorf("openai: %w", err)
	}

	tc := modeladapter.RecordUsage(&a.Usage, req, text, usage.TokenCount{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	})

	return modeladapter.Result{Text: text, Usage: tc}, nil
}

// --- request types ---

type apiRequest struct {
	Model          string             `json:"model"`
	Messages       []apiMessage       `json:"messages"`
	MaxTokens      int                `json:"max_tokens"`
	Temperature    float64            `json:"temperature"`
	ResponseFormat *apiResponseFormat `json:"response_format,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponseFormat struct {
	Type string `json:"type"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(req modeladapter.Request) apiRequest {
	out := apiRequest{
		Model:       a.Name,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	if req.SystemPrompt != "" {
		out.Messages = append(out.Messages, apiMessage{Role: "system", Content: req.SystemPrompt})
	}
	out.Messages = append(out.Messages, apiMessage{Role: "user", Content: req.Prompt})

	if req.JSONMode {
		out.ResponseFormat = &apiResponseFormat{Type: "json_object"}
	}

	return out
}

func (r apiResponse) text() (string, error) {
	if len(r.Choices) == 0 {
		return "", modeladapter.Malformed("empty choices in response")
	}

	content := r.Choices[0].Message.Content
	if content == nil || strings.TrimSpace(*content) == "" {
		return "", modeladapter.Malformed("choices[0].message.content is empty")
	}

	return *content, nil
}
