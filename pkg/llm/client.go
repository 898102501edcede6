package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/germanamz/cryptocontent/pkg/modeladapter"
	"github.com/germanamz/cryptocontent/pkg/modeladapter/usage"
)

// Client defaults applied when a ProviderConfig leaves them zero.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// ErrEmptyPrompt is returned by Generate when the prompt is blank.
var ErrEmptyPrompt = errors.New("llm: prompt is empty")

// ProviderConfig selects and configures the upstream a Client talks to. It is
// copied into the Client by New and never mutated afterwards.
type ProviderConfig struct {
	Provider    ProviderID
	Model       string
	APIKey      string //nolint:gosec // configuration field, not a hardcoded secret
	BaseURL     string // Optional for openai/anthropic, required for bearer-rest.
	Timeout     time.Duration
	MaxTokens   int     // Default max tokens per call (0 = DefaultMaxTokens).
	Temperature float64 // Default temperature per call (0 = DefaultTemperature).
	Retry       modeladapter.RetryPolicy
}

// Validate checks the configuration and returns a *modeladapter.ConfigurationError
// describing the first problem found.
func (c ProviderConfig) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return &modeladapter.ConfigurationError{Field: "model", Reason: "is required"}
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return &modeladapter.ConfigurationError{Field: "api_key", Reason: fmt.Sprintf("is required for provider %q", c.Provider)}
	}
	if c.Provider == BearerREST && c.BaseURL == "" {
		return &modeladapter.ConfigurationError{Field: "base_url", Reason: "is required for provider \"bearer-rest\""}
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &modeladapter.ConfigurationError{Field: "base_url", Reason: fmt.Sprintf("invalid url %q", c.BaseURL)}
		}
	}
	if c.MaxTokens < 0 {
		return &modeladapter.ConfigurationError{Field: "max_tokens", Reason: "must not be negative"}
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return &modeladapter.ConfigurationError{Field: "temperature", Reason: "must be within [0, 1]"}
	}
	if c.Timeout < 0 {
		return &modeladapter.ConfigurationError{Field: "timeout", Reason: "must not be negative"}
	}
	return nil
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	log        *slog.Logger
	sleepFunc  func(ctx context.Context, d time.Duration) error
}

// WithHTTPClient makes the adapter use client instead of its own bounded
// default. The client's Timeout then governs the call.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithLogger sets the logger for generation and retry events.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithSleepFunc overrides how the retry policy waits between attempts.
func WithSleepFunc(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) { o.sleepFunc = fn }
}

// Client is the unified LLM client. It is safe for concurrent use.
type Client struct {
	cfg ProviderConfig
	gen *modeladapter.Retrying
	log *slog.Logger
}

// New validates cfg, builds the adapter for cfg.Provider and wraps it in the
// retry policy. Configuration problems are reported here, never by Generate.
func New(cfg ProviderConfig, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	id, err := ParseProviderID(string(cfg.Provider))
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	cfg.Provider = id

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = modeladapter.DefaultTimeout
	}

	factory, _ := getFactory(id)

	adapter, err := factory(cfg, o.httpClient)
	if err != nil {
		return nil, fmt.Errorf("llm: provider %q: %w", id, err)
	}

	gen := modeladapter.NewRetrying(adapter, cfg.Retry)
	gen.SetLogger(o.log.With("provider", string(id), "model", cfg.Model))
	if o.sleepFunc != nil {
		gen.SetSleepFunc(o.sleepFunc)
	}
	cfg.Retry = gen.Policy()

	return &Client{cfg: cfg, gen: gen, log: o.log}, nil
}

// Provider returns the provider the client is bound to.
func (c *Client) Provider() ProviderID { return c.cfg.Provider }

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

// Config returns a copy of the effective configuration.
func (c *Client) Config() ProviderConfig { return c.cfg }

// Usage returns the token usage tracker of the bound adapter.
func (c *Client) Usage() *usage.Tracker { return c.gen.UsageTracker() }

// CountTokens approximates the token count of text (characters / 4). It is
// intended for cost estimation only.
func (c *Client) CountTokens(text string) int { return modeladapter.CountTokens(text) }

// GenerateOption adjusts a single Generate call.
type GenerateOption func(*modeladapter.Request)

// WithSystemPrompt sets the system instructions.
func WithSystemPrompt(s string) GenerateOption {
	return func(r *modeladapter.Request) { r.SystemPrompt = s }
}

// WithMaxTokens overrides the maximum response length.
func WithMaxTokens(n int) GenerateOption {
	return func(r *modeladapter.Request) { r.MaxTokens = n }
}

// WithTemperature overrides the sampling temperature. Zero is honored.
func WithTemperature(t float64) GenerateOption {
	return func(r *modeladapter.Request) { r.Temperature = t }
}

// WithJSONMode asks for a JSON object reply. Only the openai provider honors
// it; the others ignore the flag.
func WithJSONMode(on bool) GenerateOption {
	return func(r *modeladapter.Request) { r.JSONMode = on }
}

// Generate returns the text generated for prompt.
func (c *Client) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	res, err := c.GenerateResult(ctx, prompt, opts...)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// GenerateResult is like Generate but also returns the token usage of the call.
func (c *Client) GenerateResult(ctx context.Context, prompt string, opts ...GenerateOption) (modeladapter.Result, error) {
	req, err := c.buildRequest(prompt, opts)
	if err != nil {
		return modeladapter.Result{}, err
	}

	start := time.Now()

	res, err := c.gen.Generate(ctx, req)
	if err != nil {
		c.log.ErrorContext(ctx, "generation failed",
			"provider", string(c.cfg.Provider),
			"model", c.cfg.Model,
			"duration", time.Since(start),
			"error", err,
		)
		return modeladapter.Result{}, err
	}

	c.log.InfoContext(ctx, "generation finished",
		"provider", string(c.cfg.Provider),
		"model", c.cfg.Model,
		"duration", time.Since(start),
		"prompt_tokens", res.Usage.PromptTokens,
		"completion_tokens", res.Usage.CompletionTokens,
	)

	return res, nil
}

func (c *Client) buildRequest(prompt string, opts []GenerateOption) (modeladapter.Request, error) {
	if strings.TrimSpace(prompt) == "" {
		return modeladapter.Request{}, ErrEmptyPrompt
	}

	req := modeladapter.Request{
		Prompt:      prompt,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	for _, opt := range opts {
		opt(&req)
	}

	if req.MaxTokens <= 0 {
		return modeladapter.Request{}, fmt.Errorf("llm: max tokens must be positive, got %d", req.MaxTokens)
	}
	if req.Temperature < 0 || req.Temperature > 1 {
		return modeladapter.Request{}, fmt.Errorf("llm: temperature %v out of range [0, 1]", req.Temperature)
	}

	return req, nil
}
