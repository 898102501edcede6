package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/germanamz/cryptocontent/pkg/llm"
	"github.com/germanamz/cryptocontent/pkg/prompts"
)

// Post content types.
const (
	PostAnnouncement = "announcement"
	PostFeature      = "feature"
	PostUpdate       = "update"
	PostEducation    = "education"
)

// Description lengths.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Feature explainer audiences.
const (
	AudienceGeneral   = "general"
	AudienceTechnical = "technical"
	AudienceInvestor  = "investor"
)

// Thread size bounds.
const (
	DefaultThreadTweets = 7
	MinThreadTweets     = 2
	MaxThreadTweets     = 25
)

var postGuidance = map[string]string{
	PostAnnouncement: "Write an announcement tweet.",
	PostFeature:      "Write a tweet that spotlights a single product feature.",
	PostUpdate:       "Write a tweet sharing a project update or milestone.",
	PostEducation:    "Write an educational tweet that teaches one concept.",
}

var descriptionTokens = map[string]int{
	LengthShort:  300,
	LengthMedium: 800,
	LengthLong:   1500,
}

var audienceGuidance = map[string]string{
	AudienceGeneral:   "Write for a general crypto audience.",
	AudienceTechnical: "Write for developers and technically literate readers.",
	AudienceInvestor:  "Write for investors evaluating the project.",
}

// PostOptions parameterizes TwitterPost.
type PostOptions struct {
	ContentType string // announcement (default), feature, update, education
	KeyPoint    string // Defaults to the project's first feature.
}

// ThreadOptions parameterizes TwitterThread.
type ThreadOptions struct {
	Topic     string
	NumTweets int // 0 selects DefaultThreadTweets.
}

// DescriptionOptions parameterizes ProjectDescription.
type DescriptionOptions struct {
	Length string // short, medium (default), long
}

// FeatureOptions parameterizes FeatureExplainer.
type FeatureOptions struct {
	FeatureName      string
	TechnicalDetails string // Defaults to the project summary.
	Audience         string // general (default), technical, investor
}

// TwitterPost generates a single tweet.
func (g *Generator) TwitterPost(ctx context.Context, projectID string, opts PostOptions) (Result, error) {
	kind := KindTwitterPost

	if opts.ContentType == "" {
		opts.ContentType = PostAnnouncement
	}
	guidance, ok := postGuidance[opts.ContentType]
	if !ok {
		return Result{}, invalid(kind, "unknown content type %q", opts.ContentType)
	}

	return g.run(ctx, projectID, kind, call{
		template: prompts.TwitterAnnouncement,
		vars: func(p Project) prompts.Vars {
			key := opts.KeyPoint
			if key == "" && len(p.Features) > 0 {
				key = p.Features[0]
			}
			if key == "" {
				key = p.Description
			}
			return prompts.Vars{
				"project_name": p.Name,
				"project_info": p.Summary(),
				"key_feature":  key,
			}
		},
		opts: []llm.GenerateOption{llm.WithSystemPrompt(guidance)},
		meta: Metadata{ContentType: opts.ContentType},
		finish: func(r *Result) {
			if r.Metadata.Characters > MaxTweetLength {
				r.Metadata.OverLimit = true
				r.Metadata.Warnings = append(r.Metadata.Warnings,
					fmt.Sprintf("tweet is %d characters, limit is %d", r.Metadata.Characters, MaxTweetLength))
			}
		},
	})
}

// TwitterThread generates a numbered thread and splits it into tweets.
func (g *Generator) TwitterThread(ctx context.Context, projectID string, opts ThreadOptions) (Result, error) {
	kind := KindTwitterThread

	if strings.TrimSpace(opts.Topic) == "" {
		return Result{}, invalid(kind, "topic is required")
	}
	if opts.NumTweets == 0 {
		opts.NumTweets = DefaultThreadTweets
	}
	if opts.NumTweets < MinThreadTweets || opts.NumTweets > MaxThreadTweets {
		return Result{}, invalid(kind, "num_tweets must be within [%d, %d], got %d", MinThreadTweets, MaxThreadTweets, opts.NumTweets)
	}

	return g.run(ctx, projectID, kind, call{
		template: prompts.TwitterThread,
		vars: func(p Project) prompts.Vars {
			return prompts.Vars{
				"topic":           opts.Topic,
				"project_name":    p.Name,
				"project_context": p.Summary(),
				"num_tweets":      opts.NumTweets,
			}
		},
		finish: func(r *Result) {
			r.Tweets = SplitThread(r.Text)

			if len(r.Tweets) != opts.NumTweets {
				r.Metadata.Warnings = append(r.Metadata.Warnings,
					fmt.Sprintf("requested %d tweets, got %d", opts.NumTweets, len(r.Tweets)))
			}
			for _, t := range r.Tweets {
				if t.OverLimit {
					r.Metadata.OverLimit = true
					r.Metadata.Warnings = append(r.Metadata.Warnings,
						fmt.Sprintf("tweet %d is %d characters, limit is %d", t.Index, t.Characters, MaxTweetLength))
				}
			}
		},
	})
}

// ProjectDescription generates a project summary. Length selects the focus
// and the response budget.
func (g *Generator) ProjectDescription(ctx context.Context, projectID string, opts DescriptionOptions) (Result, error) {
	kind := KindProjectDescription

	if opts.Length == "" {
		opts.Length = LengthMedium
	}
	maxTokens, ok := descriptionTokens[opts.Length]
	if !ok {
		return Result{}, invalid(kind, "unknown length %q", opts.Length)
	}

	return g.run(ctx, projectID, kind, call{
		template: prompts.ProjectSummary,
		vars: func(p Project) prompts.Vars {
			return prompts.Vars{
				"project_name":  p.Name,
				"research_data": p.Summary(),
				"length":        opts.Length,
			}
		},
		opts: []llm.GenerateOption{llm.WithMaxTokens(maxTokens)},
		meta: Metadata{Length: opts.Length},
	})
}

// FeatureExplainer explains one feature of a project.
func (g *Generator) FeatureExplainer(ctx context.Context, projectID string, opts FeatureOptions) (Result, error) {
	kind := KindFeatureExplainer

	if strings.TrimSpace(opts.FeatureName) == "" {
		return Result{}, invalid(kind, "feature name is required")
	}
	if opts.Audience == "" {
		opts.Audience = AudienceGeneral
	}
	guidance, ok := audienceGuidance[opts.Audience]
	if !ok {
		return Result{}, invalid(kind, "unknown audience %q", opts.Audience)
	}

	return g.run(ctx, projectID, kind, call{
		template: prompts.FeatureExplainer,
		vars: func(p Project) prompts.Vars {
			details := opts.TechnicalDetails
			if details == "" {
				details = p.Summary()
			}
			return prompts.Vars{
				"feature_name":      opts.FeatureName,
				"project_name":      p.Name,
				"technical_details": details,
			}
		},
		opts: []llm.GenerateOption{llm.WithSystemPrompt(guidance)},
		meta: Metadata{Audience: opts.Audience},
	})
}
