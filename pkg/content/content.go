// Package content composes the LLM client and the prompt registry into
// marketing artifacts for crypto projects: Twitter posts and threads, project
// descriptions, and feature explainers.
//
// Every operation takes a project ID. While the project source cannot provide
// data for it (no source configured, or ErrProjectUnavailable), operations
// return a Result with StatusNotImplemented instead of generating text.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/germanamz/cryptocontent/pkg/llm"
	"github.com/germanamz/cryptocontent/pkg/modeladapter"
	"github.com/germanamz/cryptocontent/pkg/prompts"
	"github.com/google/uuid"
)

// ErrInvalidOptions is wrapped by every parameter validation error.
var ErrInvalidOptions = errors.New("invalid options")

// TextGenerator produces text for a prompt. *llm.Client implements it.
type TextGenerator interface {
	GenerateResult(ctx context.Context, prompt string, opts ...llm.GenerateOption) (modeladapter.Result, error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger for generation events.
func WithLogger(log *slog.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// WithClock overrides the time source for Result.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithIDFunc overrides how Result IDs are generated.
func WithIDFunc(fn func() uuid.UUID) Option {
	return func(g *Generator) { g.newID = fn }
}

// Generator produces content artifacts. It is safe for concurrent use when
// its TextGenerator and ProjectSource are.
type Generator struct {
	gen     TextGenerator
	prompts *prompts.Registry
	source  ProjectSource
	log     *slog.Logger
	now     func() time.Time
	newID   func() uuid.UUID
}

// New creates a Generator. A nil registry selects prompts.Defaults(). A nil
// source is allowed and makes every operation return a not-implemented result.
func New(gen TextGenerator, reg *prompts.Registry, src ProjectSource, opts ...Option) (*Generator, error) {
	if gen == nil {
		return nil, errors.New("content: text generator is required")
	}
	if reg == nil {
		reg = prompts.Defaults()
	}

	g := &Generator{
		gen:     gen,
		prompts: reg,
		source:  src,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Prompts returns the registry templates are rendered from.
func (g *Generator) Prompts() *prompts.Registry { return g.prompts }

// call describes one templated generation.
type call struct {
	template string
	vars     func(Project) prompts.Vars
	opts     []llm.GenerateOption
	meta     Metadata
	finish   func(*Result)
}

func (g *Generator) run(ctx context.Context, projectID string, kind Kind, c call) (Result, error) {
	if strings.TrimSpace(projectID) == "" {
		return Result{}, fmt.Errorf("content: %s: %w: project id is required", kind, ErrInvalidOptions)
	}

	res := Result{
		ID:        g.newID(),
		ProjectID: projectID,
		Kind:      kind,
		Template:  c.template,
		Metadata:  c.meta,
		CreatedAt: g.now().UTC(),
	}

	project, ok, err := g.project(ctx, projectID)
	if err != nil {
		return Result{}, fmt.Errorf("content: %s: %w", kind, err)
	}
	if !ok {
		g.log.InfoContext(ctx, "content not available", "kind", string(kind), "project_id", projectID)

		res.Status = StatusNotImplemented
		res.Message = notImplementedMessages[kind]
		return res, nil
	}

	prompt, err := g.prompts.Render(c.template, c.vars(project))
	if err != nil {
		return Result{}, fmt.Errorf("content: %s: %w", kind, err)
	}

	out, err := g.gen.GenerateResult(ctx, prompt, c.opts...)
	if err != nil {
		return Result{}, fmt.Errorf("content: %s: %w", kind, err)
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return Result{}, fmt.Errorf("content: %s: %w", kind, modeladapter.Malformed("completion text is blank"))
	}

	res.Status = StatusOK
	res.Prompt = prompt
	res.Text = text
	res.Metadata.Characters = utf8.RuneCountInString(text)
	res.Metadata.EstimatedTokens = modeladapter.CountTokens(text)
	res.Metadata.PromptTokens = out.Usage.PromptTokens
	res.Metadata.CompletionTokens = out.Usage.CompletionTokens
	res.Metadata.UsageEstimated = out.Usage.Estimated
	if m, ok := g.gen.(interface{ Model() string }); ok {
		res.Metadata.Model = m.Model()
	}

	if c.finish != nil {
		c.finish(&res)
	}

	g.log.InfoContext(ctx, "content generated",
		"kind", string(kind),
		"project_id", projectID,
		"id", res.ID.String(),
		"characters", res.Metadata.Characters,
	)

	return res, nil
}

// project fetches project data. ok is false when the source has none to give.
func (g *Generator) project(ctx context.Context, id string) (Project, bool, error) {
	if g.source == nil {
		return Project{}, false, nil
	}

	p, err := g.source.Project(ctx, id)
	switch {
	case errors.Is(err, ErrProjectUnavailable), errors.Is(err, ErrNotImplemented):
		return Project{}, false, nil
	case err != nil:
		return Project{}, false, err
	}

	return p, true, nil
}

func invalid(kind Kind, format string, args ...any) error {
	return fmt.Errorf("content: %s: %w: %s", kind, ErrInvalidOptions, fmt.Sprintf(format, args...))
}
