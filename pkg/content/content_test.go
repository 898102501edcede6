package content_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/germanamz/cryptocontent/pkg/content"
	"github.com/germanamz/cryptocontent/pkg/llm"
	"github.com/germanamz/cryptocontent/pkg/modeladapter"
	"github.com/germanamz/cryptocontent/pkg/modeladapter/usage"
	"github.com/germanamz/cryptocontent/pkg/prompts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGen struct {
	mu    sync.Mutex
	text  string
	err   error
	usage usage.TokenCount
	reqs  []modeladapter.Request
}

func (f *fakeGen) GenerateResult(_ context.Context, prompt string, opts ...llm.GenerateOption) (modeladapter.Result, error) {
	req := modeladapter.Request{Prompt: prompt}
	for _, opt := range opts {
		opt(&req)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return modeladapter.Result{}, f.err
	}

	return modeladapter.Result{Text: f.text, Usage: f.usage}, nil
}

func (f *fakeGen) Model() string { return "fake-model" }

func (f *fakeGen) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func (f *fakeGen) last() modeladapter.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqs[len(f.reqs)-1]
}

type errSource struct{ err error }

func (s errSource) Project(context.Context, string) (content.Project, error) {
	return content.Project{}, s.err
}

var (
	fixedID  = uuid.MustParse("7f1c6c7e-3c1a-4f5e-9a43-2f3b2d8f0a11")
	fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func nova() content.Project {
	return content.Project{
		ID:          "nova",
		Name:        "Nova",
		URL:         "https://nova.example",
		Description: "A fast rollup",
		Features:    []string{"cheap fees", "instant finality"},
	}
}

func newGenerator(t *testing.T, gen *fakeGen, src content.ProjectSource) *content.Generator {
	t.Helper()

	g, err := content.New(gen, nil, src,
		content.WithClock(func() time.Time { return fixedNow }),
		content.WithIDFunc(func() uuid.UUID { return fixedID }),
	)
	require.NoError(t, err)

	return g
}

func TestNew_RequiresGenerator(t *testing.T) {
	_, err := content.New(nil, nil, nil)
	assert.Error(t, err)
}

func TestNew_DefaultRegistry(t *testing.T) {
	g := newGenerator(t, &fakeGen{}, nil)
	assert.Equal(t, 4, g.Prompts().Len())
}

func TestNotImplemented_NilSource(t *testing.T) {
	gen := &fakeGen{text: "unused"}
	g := newGenerator(t, gen, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		kind    content.Kind
		message string
		run     func() (content.Result, error)
	}{
		{
			name:    "post",
			kind:    content.KindTwitterPost,
			message: "Twitter post generation not yet implemented",
			run:     func() (content.Result, error) { return g.TwitterPost(ctx, "nova", content.PostOptions{}) },
		},
		{
			name:    "thread",
			kind:    content.KindTwitterThread,
			message: "Twitter thread generation not yet implemented",
			run: func() (content.Result, error) {
				return g.TwitterThread(ctx, "nova", content.ThreadOptions{Topic: "staking"})
			},
		},
		{
			name:    "description",
			kind:    content.KindProjectDescription,
			message: "Description generation not yet implemented",
			run: func() (content.Result, error) {
				return g.ProjectDescription(ctx, "nova", content.DescriptionOptions{})
			},
		},
		{
			name:    "feature",
			kind:    content.KindFeatureExplainer,
			message: "Feature explanation not yet implemented",
			run: func() (content.Result, error) {
				return g.FeatureExplainer(ctx, "nova", content.FeatureOptions{FeatureName: "zk proofs"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.run()
			require.NoError(t, err)

			assert.Equal(t, content.StatusNotImplemented, res.Status)
			assert.False(t, res.Implemented())
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.message, res.Message)
			assert.Empty(t, res.Text)
			assert.Empty(t, res.Tweets)
			assert.Equal(t, fixedID, res.ID)
			assert.Equal(t, fixedNow, res.CreatedAt)
		})
	}

	assert.Equal(t, 0, gen.calls())
}

func TestNotImplemented_UnavailableSources(t *testing.T) {
	pending := nova()
	pending.ResearchStatus = content.ResearchPending

	sources := map[string]content.ProjectSource{
		"pending research": content.NewStaticSource(pending),
		"unavailable":      errSource{err: fmt.Errorf("db offline: %w", content.ErrProjectUnavailable)},
		"not implemented":  errSource{err: content.ErrNotImplemented},
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGen{text: "unused"}
			res, err := newGenerator(t, gen, src).TwitterPost(context.Background(), "nova", content.PostOptions{})
			require.NoError(t, err)
			assert.Equal(t, content.StatusNotImplemented, res.Status)
			assert.Equal(t, 0, gen.calls())
		})
	}
}

func TestSourceErrorPropagates(t *testing.T) {
	g := newGenerator(t, &fakeGen{}, content.NewStaticSource(nova()))

	_, err := g.TwitterPost(context.Background(), "unknown", content.PostOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, content.ErrProjectNotFound)
}

func TestTwitterPost(t *testing.T) {
	gen := &fakeGen{
		text:  "  Nova ships cheap fees! #L2 #crypto Try it today.  ",
		usage: usage.TokenCount{PromptTokens: 120, CompletionTokens: 14},
	}
	g := newGenerator(t, gen, content.NewStaticSource(nova()))

	res, err := g.TwitterPost(context.Background(), "nova", content.PostOptions{})
	require.NoError(t, err)

	assert.Equal(t, content.StatusOK, res.Status)
	assert.Equal(t, content.KindTwitterPost, res.Kind)
	assert.Equal(t, prompts.TwitterAnnouncement, res.Template)
	assert.Equal(t, "Nova ships cheap fees! #L2 #crypto Try it today.", res.Text)
	assert.Equal(t, "nova", res.ProjectID)

	assert.Equal(t, len([]rune(res.Text)), res.Metadata.Characters)
	assert.Equal(t, modeladapter.CountTokens(res.Text), res.Metadata.EstimatedTokens)
	assert.Equal(t, 120, res.Metadata.PromptTokens)
	assert.Equal(t, 14, res.Metadata.CompletionTokens)
	assert.Equal(t, "fake-model", res.Metadata.Model)
	assert.Equal(t, content.PostAnnouncement, res.Metadata.ContentType)
	assert.False(t, res.Metadata.OverLimit)

	req := gen.last()
	assert.Equal(t, res.Prompt, req.Prompt)
	assert.Contains(t, req.Prompt, "Twitter post about Nova.")
	assert.Contains(t, req.Prompt, "Highlight the key feature: cheap fees")
	assert.Contains(t, req.Prompt, "Website: https://nova.example")
	assert.Equal(t, "Write an announcement tweet.", req.SystemPrompt)
}

func TestTwitterPost_KeyPointAndType(t *testing.T) {
	gen := &fakeGen{text: "ok"}
	g := newGenerator(t, gen, content.NewStaticSource(nova()))

	res, err := g.TwitterPost(context.Background(), "nova", content.PostOptions{ContentType: content.PostEducation, KeyPoint: "rollups"})
	require.NoError(t, err)
	assert.Equal(t, content.PostEducation, res.Metadata.ContentType)

	req := gen.last()
	assert.Contains(t, req.Prompt, "Highlight the key feature: rollups")
	assert.Contains(t, req.SystemPrompt, "educational")
}

func TestTwitterPost_OverLimit(t *testing.T) {
	gen := &fakeGen{text: strings.Repeat("a", 281)}
	g := newGenerator(t, gen, content.NewStaticSource(nova()))

	res, err := g.TwitterPost(context.Background(), "nova", content.PostOptions{})
	require.NoError(t, err)
	assert.True(t, res.Metadata.OverLimit)
	require.Len(t, res.Metadata.Warnings, 1)
	assert.Contains(t, res.Metadata.Warnings[0], "281")
}

func TestTwitterThread(t *testing.T) {
	gen := &fakeGen{text: "1/3 Hook about staking\n\n2/3 How it works\n3/3 Stake now!"}
	g := newGenerator(t, gen, content.NewStaticSource(nova()))

	res, err := g.TwitterThread(context.Background(), "nova", content.ThreadOptions{Topic: "staking", NumTweets: 3})
	require.NoError(t, err)

	require.Len(t, res.Tweets, 3)
	assert.Equal(t, "1/3 Hook about staking", res.Tweets[0].Text)
	assert.Equal(t, "3/3 Stake now!", res.Tweets[2].Text)
	assert.Empty(t, res.Metadata.Warnings)

	req := gen.last()
	assert.Contains(t, req.Prompt, "Create a Twitter thread (3 tweets) explaining staking for Nova.")
	assert.Contains(t, req.Prompt, "(1/3, 2/3, etc.)")
}

func TestTwitterThread_DefaultSizeAndMismatch(t *testing.T) {
	gen := &fakeGen{text: "1/7 one\n2/7 two"}
	g := newGenerator(t, gen, content.NewStaticSource(nova()))

	res, err := g.TwitterThread(context.Background(), "nova", content.ThreadOptions{Topic: "fees"})
	require.NoError(t, err)

	assert.Contains(t, gen.last().Prompt, "(7 tweets)")
	assert.Len(t, res.Tweets, 2)
	assert.Contains(t, res.Metadata.Warnings, "requested 7 tweets, got 2")
}

func TestTwitterThread_FlagsLongTweets(t *testing.T) {
	gen := &fakeGen{text: "1/2 short\n2/2 " + strings.Repeat("x", 300)}
	g := newGenerator(t, gen, content.NewStaticSource(nova()))

	res, err := g.TwitterThread(context.Background(), "nova", content.ThreadOptions{Topic: "fees", NumTweets: 2})
	require.NoError(t, err)

	require.Len(t, res.Tweets, 2)
	assert.False(t, res.Tweets[0].OverLimit)
	assert.True(t, res.Tweets[1].OverLimit)
	assert.True(t, res.Metadata.OverLimit)
}

func TestDescription(t *testing.T) {
	tests := []struct {
		length    string
		wantLen   string
		maxTokens int
	}{
		{length: "", wantLen: content.LengthMedium, maxTokens: 800},
		{length: content.LengthShort, wantLen: content.LengthShort, maxTokens: 300},
		{length: content.LengthLong, wantLen: content.LengthLong, maxTokens: 1500},
	}

	for _, tt := range tests {
		t.Run(tt.wantLen, func(t *testing.T) {
			gen := &fakeGen{text: "Nova is a rollup."}
			g := newGenerator(t, gen, content.NewStaticSource(nova()))

			res, err := g.ProjectDescription(context.Background(), "nova", content.DescriptionOptions{Length: tt.length})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, res.Metadata.Length)
			assert.Equal(t, prompts.ProjectSummary, res.Template)

			req := gen.last()
			assert.Equal(t, tt.maxTokens, req.MaxTokens)
			assert.Contains(t, req.Prompt, "Length focus: "+tt.wantLen)
			assert.Contains(t, req.Prompt, "- instant finality")
		})
	}
}

func TestFeatureExplainer(t *testing.T) {
	gen := &fakeGen{text: "Think of it like a receipt."}
	g := newGenerator(t, gen, content.NewStaticSource(nova()))

	res, err := g.FeatureExplainer(context.Background(), "nova", content.FeatureOptions{
		FeatureName:      "zk proofs",
		TechnicalDetails: "Groth16 over BN254",
		Audience:         content.AudienceTechnical,
	})
	require.NoError(t, err)
	assert.Equal(t, content.AudienceTechnical, res.Metadata.Audience)

	req := gen.last()
	assert.Contains(t, req.Prompt, `Explain the feature "zk proofs" for Nova in simple terms.`)
	assert.Contains(t, req.Prompt, "Groth16 over BN254")
	assert.Contains(t, req.SystemPrompt, "developers")
}

func TestFeatureExplainer_DefaultDetails(t *testing.T) {
	gen := &fakeGen{text: "ok"}
	g := newGenerator(t, gen, content.NewStaticSource(nova()))

	res, err := g.FeatureExplainer(context.Background(), "nova", content.FeatureOptions{FeatureName: "fees"})
	require.NoError(t, err)
	assert.Equal(t, content.AudienceGeneral, res.Metadata.Audience)
	assert.Contains(t, gen.last().Prompt, "Description: A fast rollup")
}

func TestInvalidOptions(t *testing.T) {
	gen := &fakeGen{text: "unused"}
	g := newGenerator(t, gen, content.NewStaticSource(nova()))
	ctx := context.Background()

	tests := map[string]func() (content.Result, error){
		"empty project id": func() (content.Result, error) { return g.TwitterPost(ctx, " ", content.PostOptions{}) },
		"content type": func() (content.Result, error) {
			return g.TwitterPost(ctx, "nova", content.PostOptions{ContentType: "meme"})
		},
		"empty topic": func() (content.Result, error) { return g.TwitterThread(ctx, "nova", content.ThreadOptions{}) },
		"one tweet": func() (content.Result, error) {
			return g.TwitterThread(ctx, "nova", content.ThreadOptions{Topic: "x", NumTweets: 1})
		},
		"too many tweets": func() (content.Result, error) {
			return g.TwitterThread(ctx, "nova", content.ThreadOptions{Topic: "x", NumTweets: 26})
		},
		"length": func() (content.Result, error) {
			return g.ProjectDescription(ctx, "nova", content.DescriptionOptions{Length: "huge"})
		},
		"feature name": func() (content.Result, error) {
			return g.FeatureExplainer(ctx, "nova", content.FeatureOptions{})
		},
		"audience": func() (content.Result, error) {
			return g.FeatureExplainer(ctx, "nova", content.FeatureOptions{FeatureName: "x", Audience: "whales"})
		},
	}

	for name, run := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run()
			assert.ErrorIs(t, err, content.ErrInvalidOptions)
		})
	}

	assert.Equal(t, 0, gen.calls())
}

func TestGenerationErrorPropagates(t *testing.T) {
	upstream := &modeladapter.StatusError{StatusCode: 503, Body: "down"}
	g := newGenerator(t, &fakeGen{err: upstream}, content.NewStaticSource(nova()))

	res, err := g.TwitterPost(context.Background(), "nova", content.PostOptions{})
	require.Error(t, err)
	assert.Empty(t, res.Text)

	var se *modeladapter.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 503, se.StatusCode)
}

func TestBlankCompletionIsError(t *testing.T) {
	g := newGenerator(t, &fakeGen{text: " \n\t "}, content.NewStaticSource(nova()))

	res, err := g.TwitterPost(context.Background(), "nova", content.PostOptions{})
	require.Error(t, err)
	assert.Empty(t, res.Status)

	var mre *modeladapter.MalformedResponseError
	assert.True(t, errors.As(err, &mre))
}

func TestTemplateErrorPropagates(t *testing.T) {
	gen := &fakeGen{text: "unused"}
	g, err := content.New(gen, prompts.NewRegistry(), content.NewStaticSource(nova()))
	require.NoError(t, err)

	_, err = g.TwitterPost(context.Background(), "nova", content.PostOptions{})
	assert.ErrorIs(t, err, prompts.ErrTemplateNotFound)
	assert.Equal(t, 0, gen.calls())
}

func TestCustomTemplateOverride(t *testing.T) {
	reg := prompts.Defaults()
	require.NoError(t, reg.Register(prompts.TwitterAnnouncement, "Tweet about {project_name}: {key_feature}"))

	gen := &fakeGen{text: "ok"}
	g, err := content.New(gen, reg, content.NewStaticSource(nova()))
	require.NoError(t, err)

	_, err = g.TwitterPost(context.Background(), "nova", content.PostOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Tweet about Nova: cheap fees", gen.last().Prompt)
}
