package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/germanamz/cryptocontent/pkg/content"
	"github.com/germanamz/cryptocontent/pkg/llm"
	"github.com/germanamz/cryptocontent/pkg/prompts"
	"github.com/germanamz/cryptocontent/pkg/tools/mcpserver"
	"github.com/germanamz/cryptocontent/pkg/tools/toolbox"
)

// Version is reported by the MCP server unless configured otherwise.
const Version = "0.1.0"

// Option configures an Engine.
type Option func(*options)

type options struct {
	log        *slog.Logger
	httpClient *http.Client
	sleepFunc  func(ctx context.Context, d time.Duration) error
	source     content.ProjectSource
}

// WithLogger sets the logger shared by every component.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithHTTPClient makes the provider adapter use client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithSleepFunc overrides how retries wait between attempts.
func WithSleepFunc(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) { o.sleepFunc = fn }
}

// WithProjectSource supplies project data instead of Config.ProjectsFile.
func WithProjectSource(src content.ProjectSource) Option {
	return func(o *options) { o.source = src }
}

// Engine is the composition root that assembles the LLM client, prompt
// registry, project source and content generator from configuration.
type Engine struct {
	cfg       Config
	log       *slog.Logger
	client    *llm.Client
	prompts   *prompts.Registry
	source    content.ProjectSource
	generator *content.Generator
}

// New validates cfg and builds every component. Provider credentials are
// checked here, before any request is made.
func New(cfg Config, opts ...Option) (*Engine, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pc, err := cfg.Provider.LLMConfig()
	if err != nil {
		return nil, err
	}

	llmOpts := []llm.Option{llm.WithLogger(o.log)}
	if o.httpClient != nil {
		llmOpts = append(llmOpts, llm.WithHTTPClient(o.httpClient))
	}
	if o.sleepFunc != nil {
		llmOpts = append(llmOpts, llm.WithSleepFunc(o.sleepFunc))
	}

	client, err := llm.New(pc, llmOpts...)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	reg, err := LoadPrompts(cfg)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	src := o.source
	if src == nil && cfg.ProjectsFile != "" {
		static, err := content.LoadProjects(cfg.ProjectsFile)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		src = static
	}

	gen, err := content.New(client, reg, src, content.WithLogger(o.log))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	o.log.Debug("engine ready",
		"provider", string(client.Provider()),
		"model", client.Model(),
		"templates", reg.Len(),
		"projects", src != nil,
	)

	return &Engine{
		cfg:       cfg,
		log:       o.log,
		client:    client,
		prompts:   reg,
		source:    src,
		generator: gen,
	}, nil
}

// LoadPrompts starts from the built-in templates and overlays the configured
// directory and YAML file, in that order.
func LoadPrompts(cfg Config) (*prompts.Registry, error) {
	reg := prompts.Defaults()

	if cfg.PromptsDir != "" {
		templates, err := prompts.LoadDir(cfg.PromptsDir)
		if err != nil {
			return nil, err
		}
		reg.Add(templates...)
	}

	if cfg.PromptsFile != "" {
		templates, err := prompts.LoadYAML(cfg.PromptsFile)
		if err != nil {
			return nil, err
		}
		reg.Add(templates...)
	}

	return reg, nil
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() Config { return e.cfg }

// Client returns the unified LLM client.
func (e *Engine) Client() *llm.Client { return e.client }

// Prompts returns the prompt registry.
func (e *Engine) Prompts() *prompts.Registry { return e.prompts }

// Generator returns the content generator.
func (e *Engine) Generator() *content.Generator { return e.generator }

// HasProjects reports whether a project source is configured.
func (e *Engine) HasProjects() bool { return e.source != nil }

// Tools returns the content tools.
func (e *Engine) Tools() *toolbox.ToolBox { return e.generator.Tools() }

// MCPServer builds an MCP server exposing the content tools. A non-empty
// names list restricts the exposed tools.
func (e *Engine) MCPServer(names ...string) *mcpserver.Server {
	name := e.cfg.Server.Name
	if name == "" {
		name = DefaultServerName
	}
	version := e.cfg.Server.Version
	if version == "" {
		version = Version
	}

	s := mcpserver.New(name, version, e.log)
	s.RegisterToolBox(e.Tools().Filter(names))

	return s
}

// ServeMCP serves the content tools over MCP on in/out until ctx is done.
func (e *Engine) ServeMCP(ctx context.Context, in io.Reader, out io.Writer, names ...string) error {
	s := e.MCPServer(names...)

	e.log.InfoContext(ctx, "serving mcp", "tools", s.Tools())

	return s.Serve(ctx, in, out)
}
