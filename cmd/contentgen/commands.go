package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/germanamz/cryptocontent/pkg/content"
	"github.com/germanamz/cryptocontent/pkg/engine"
	"github.com/germanamz/cryptocontent/pkg/llm"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"generate":    runGenerate,
	"post":        runPost,
	"thread":      runThread,
	"description": runDescription,
	"feature":     runFeature,
	"templates":   runTemplates,
	"mcp":         runMCP,
}

func newFlagSet(a *app, name, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: contentgen %s [flags]\n\n%s\n\nFlags:\n", name, summary)
		fs.PrintDefaults()
	}
	return fs
}

// outputFlags are shared by the content commands.
type outputFlags struct {
	json     bool
	markdown bool
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&o.json, "json", false, "print the result as JSON")
	fs.BoolVar(&o.markdown, "markdown", false, "render generated text as markdown")
}

func runGenerate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "generate", "Send a raw prompt to the configured provider.")
	prompt := fs.String("prompt", "", "user prompt (required)")
	system := fs.String("system", "", "system prompt")
	maxTokens := fs.Int("max-tokens", 0, "max tokens (default from config)")
	temperature := fs.Float64("temperature", -1, "temperature in [0, 1] (default from config)")
	jsonMode := fs.Bool("json-mode", false, "ask for a JSON object reply (openai only)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *prompt == "" {
		return errors.New("generate: -prompt is required")
	}

	eng, err := a.newEngine()
	if err != nil {
		return err
	}

	var opts []llm.GenerateOption
	if *system != "" {
		opts = append(opts, llm.WithSystemPrompt(*system))
	}
	if *maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(*maxTokens))
	}
	if *temperature >= 0 {
		opts = append(opts, llm.WithTemperature(*temperature))
	}
	if *jsonMode {
		opts = append(opts, llm.WithJSONMode(true))
	}

	res, err := eng.Client().GenerateResult(ctx, *prompt, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, res.Text)
	fmt.Fprintln(a.stdout, dimStyle.Render(formatUsage(res.Usage)))

	return nil
}

func runPost(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "post", "Generate a Twitter post for a project.")
	project := fs.String("project", "", "project id (required)")
	kind := fs.String("type", content.PostAnnouncement, "announcement, feature, update or education")
	keyPoint := fs.String("key-point", "", "point to highlight")
	var out outputFlags
	out.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGenerator(a, out, func(g *content.Generator) (content.Result, error) {
		return g.TwitterPost(ctx, *project, content.PostOptions{ContentType: *kind, KeyPoint: *keyPoint})
	})
}

func runThread(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "thread", "Generate a Twitter thread for a project.")
	project := fs.String("project", "", "project id (required)")
	topic := fs.String("topic", "", "thread topic (required)")
	n := fs.Int("n", content.DefaultThreadTweets, "number of tweets")
	var out outputFlags
	out.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGenerator(a, out, func(g *content.Generator) (content.Result, error) {
		return g.TwitterThread(ctx, *project, content.ThreadOptions{Topic: *topic, NumTweets: *n})
	})
}

func runDescription(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "description", "Generate a project description.")
	project := fs.String("project", "", "project id (required)")
	length := fs.String("length", content.LengthMedium, "short, medium or long")
	var out outputFlags
	out.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGenerator(a, out, func(g *content.Generator) (content.Result, error) {
		return g.ProjectDescription(ctx, *project, content.DescriptionOptions{Length: *length})
	})
}

func runFeature(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "feature", "Explain a project feature.")
	project := fs.String("project", "", "project id (required)")
	name := fs.String("name", "", "feature name (required)")
	details := fs.String("details", "", "technical details (default: project summary)")
	audience := fs.String("audience", content.AudienceGeneral, "general, technical or investor")
	var out outputFlags
	out.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withGenerator(a, out, func(g *content.Generator) (content.Result, error) {
		return g.FeatureExplainer(ctx, *project, content.FeatureOptions{
			FeatureName:      *name,
			TechnicalDetails: *details,
			Audience:         *audience,
		})
	})
}

func withGenerator(a *app, out outputFlags, fn func(*content.Generator) (content.Result, error)) error {
	eng, err := a.newEngine()
	if err != nil {
		return err
	}

	res, err := fn(eng.Generator())
	if err != nil {
		return err
	}

	if out.json {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprint(a.stdout, renderResult(res, out.markdown))

	return nil
}

func runTemplates(_ context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "templates", "List prompt templates, or print one with -show.")
	show := fs.String("show", "", "print the body of the named template")
	width := fs.Int("width", 72, "preview width in columns")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := engine.LoadPrompts(a.cfg)
	if err != nil {
		return err
	}

	if *show != "" {
		tmpl, ok := reg.Get(*show)
		if !ok {
			return fmt.Errorf("templates: unknown template %q", *show)
		}
		fmt.Fprintln(a.stdout, tmpl.Body)
		return nil
	}

	for _, name := range reg.Names() {
		tmpl, _ := reg.Get(name)
		fmt.Fprint(a.stdout, renderTemplateLine(tmpl, *width))
	}

	return nil
}

func runMCP(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "mcp", "Serve the content tools over MCP on stdio.")
	tools := fs.String("tools", "", "comma separated tool names to expose (default: all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, err := a.newEngine()
	if err != nil {
		return err
	}

	var names []string
	for _, n := range strings.Split(*tools, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}

	return eng.ServeMCP(ctx, a.stdin, a.stdout, names...)
}
