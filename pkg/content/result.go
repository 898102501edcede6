package content

import (
	"time"

	"github.com/google/uuid"
)

// Kind names a content artifact.
type Kind string

// Content kinds.
const (
	KindTwitterPost        Kind = "twitter_post"
	KindTwitterThread      Kind = "twitter_thread"
	KindProjectDescription Kind = "project_description"
	KindFeatureExplainer   Kind = "feature_explainer"
)

// Status of a Result.
type Status string

// Result statuses.
const (
	StatusOK             Status = "ok"
	StatusNotImplemented Status = "not_implemented"
)

// notImplementedMessages are returned while no project data is available.
var notImplementedMessages = map[Kind]string{
	KindTwitterPost:        "Twitter post generation not yet implemented",
	KindTwitterThread:      "Twitter thread generation not yet implemented",
	KindProjectDescription: "Description generation not yet implemented",
	KindFeatureExplainer:   "Feature explanation not yet implemented",
}

// MaxTweetLength is the character limit of a single tweet.
const MaxTweetLength = 280

// Result is a generated artifact or an explicit not-implemented marker.
// Text is empty unless Status is StatusOK.
type Result struct {
	ID        uuid.UUID `json:"id"`
	ProjectID string    `json:"project_id"`
	Kind      Kind      `json:"kind"`
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Template  string    `json:"template,omitempty"`
	Prompt    string    `json:"prompt,omitempty"`
	Text      string    `json:"text,omitempty"`
	Tweets    []Tweet   `json:"tweets,omitempty"`
	Metadata  Metadata  `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// Implemented reports whether the result carries generated text.
func (r Result) Implemented() bool { return r.Status == StatusOK }

// Tweet is one entry of a thread.
type Tweet struct {
	Index      int    `json:"index"`
	Text       string `json:"text"`
	Characters int    `json:"characters"`
	OverLimit  bool   `json:"over_limit,omitempty"`
}

// Metadata is derived from the generated text and the call that produced it.
type Metadata struct {
	Characters       int      `json:"characters"`
	EstimatedTokens  int      `json:"estimated_tokens"`
	PromptTokens     int      `json:"prompt_tokens,omitempty"`
	CompletionTokens int      `json:"completion_tokens,omitempty"`
	UsageEstimated   bool     `json:"usage_estimated,omitempty"`
	Model            string   `json:"model,omitempty"`
	ContentType      string   `json:"content_type,omitempty"`
	Length           string   `json:"length,omitempty"`
	Audience         string   `json:"audience,omitempty"`
	OverLimit        bool     `json:"over_limit,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}
