package content

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/germanamz/cryptocontent/pkg/tools/toolbox"
)

// Tool names exposed by Generator.Tools.
const (
	ToolTwitterPost        = "generate_twitter_post"
	ToolTwitterThread      = "generate_twitter_thread"
	ToolProjectDescription = "generate_project_description"
	ToolFeatureExplainer   = "generate_feature_explainer"
)

type postInput struct {
	ProjectID string `json:"project_id"`
	Type      string `json:"type"`
	KeyPoint  string `json:"key_point"`
}

type threadInput struct {
	ProjectID string `json:"project_id"`
	Topic     string `json:"topic"`
	NumTweets int    `json:"num_tweets"`
}

type descriptionInput struct {
	ProjectID string `json:"project_id"`
	Length    string `json:"length"`
}

type featureInput struct {
	ProjectID        string `json:"project_id"`
	FeatureName      string `json:"feature_name"`
	TechnicalDetails string `json:"technical_details"`
	Audience         string `json:"audience"`
}

// Tools returns the generator operations as tools. Each tool takes a JSON
// object and answers with the JSON encoded Result.
func (g *Generator) Tools() *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(
		toolbox.Tool{
			Name:        ToolTwitterPost,
			Description: "Generate a single Twitter post for a crypto project.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string", "description": "Project identifier"},
					"type": {"type": "string", "enum": ["announcement", "feature", "update", "education"]},
					"key_point": {"type": "string", "description": "Specific point to highlight"}
				},
				"required": ["project_id"]
			}`),
			Handler: toolHandler(func(ctx context.Context, in postInput) (Result, error) {
				return g.TwitterPost(ctx, in.ProjectID, PostOptions{ContentType: in.Type, KeyPoint: in.KeyPoint})
			}),
		},
		toolbox.Tool{
			Name:        ToolTwitterThread,
			Description: "Generate a numbered Twitter thread about a topic for a crypto project.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string", "description": "Project identifier"},
					"topic": {"type": "string", "description": "Thread topic"},
					"num_tweets": {"type": "integer", "minimum": 2, "maximum": 25, "default": 7}
				},
				"required": ["project_id", "topic"]
			}`),
			Handler: toolHandler(func(ctx context.Context, in threadInput) (Result, error) {
				return g.TwitterThread(ctx, in.ProjectID, ThreadOptions{Topic: in.Topic, NumTweets: in.NumTweets})
			}),
		},
		toolbox.Tool{
			Name:        ToolProjectDescription,
			Description: "Generate a project description.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string", "description": "Project identifier"},
					"length": {"type": "string", "enum": ["short", "medium", "long"], "default": "medium"}
				},
				"required": ["project_id"]
			}`),
			Handler: toolHandler(func(ctx context.Context, in descriptionInput) (Result, error) {
				return g.ProjectDescription(ctx, in.ProjectID, DescriptionOptions{Length: in.Length})
			}),
		},
		toolbox.Tool{
			Name:        ToolFeatureExplainer,
			Description: "Explain a feature of a crypto project in simple terms.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string", "description": "Project identifier"},
					"feature_name": {"type": "string"},
					"technical_details": {"type": "string"},
					"audience": {"type": "string", "enum": ["general", "technical", "investor"], "default": "general"}
				},
				"required": ["project_id", "feature_name"]
			}`),
			Handler: toolHandler(func(ctx context.Context, in featureInput) (Result, error) {
				return g.FeatureExplainer(ctx, in.ProjectID, FeatureOptions{
					FeatureName:      in.FeatureName,
					TechnicalDetails: in.TechnicalDetails,
					Audience:         in.Audience,
				})
			}),
		},
	)

	return tb
}

func toolHandler[T any](fn func(context.Context, T) (Result, error)) toolbox.Handler {
	return func(ctx context.Context, input json.RawMessage) (string, error) {
		var in T
		if err := json.Unmarshal(input, &in); err != nil {
			return "", fmt.Errorf("invalid input: %w", err)
		}

		res, err := fn(ctx, in)
		if err != nil {
			return "", err
		}

		data, err := json.Marshal(res)
		if err != nil {
			return "", fmt.Errorf("encode result: %w", err)
		}

		return string(data), nil
	}
}
