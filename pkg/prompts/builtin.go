package prompts

// Names of the built-in templates.
const (
	TwitterAnnouncement = "twitter_announcement"
	TwitterThread       = "twitter_thread"
	ProjectSummary      = "project_summary"
	FeatureExplainer    = "feature_explainer"
)

const twitterAnnouncementBody = `You are a crypto content creator. Create an engaging Twitter post about {project_name}.

Project Information:
{project_info}

Requirements:
- Maximum 280 characters
- Include 2-3 relevant hashtags
- Engaging and professional tone
- Highlight the key feature: {key_feature}
- Include a call-to-action

Generate the tweet:`

const twitterThreadBody = `Create a Twitter thread ({num_tweets} tweets) explaining {topic} for {project_name}.

Project Context:
{project_context}

Thread Structure:
1. Hook - Grab attention
2-3. Explanation - Break down the concept
4-5. Benefits - Why it matters
6. Call-to-action

Each tweet must be under 280 characters.
Number each tweet (1/{num_tweets}, 2/{num_tweets}, etc.)`

const projectSummaryBody = `Create a comprehensive project summary for {project_name}.

Data Available:
{research_data}

Generate:
1. One-line pitch (10-15 words)
2. Short description (50 words)
3. Detailed description (200 words)
4. Key features (5 bullet points)
5. Target audience

Length focus: {length}
Tone: Professional, clear, exciting but not hyperbolic`

const featureExplainerBody = `Explain the feature "{feature_name}" for {project_name} in simple terms.

Technical Details:
{technical_details}

Create:
1. Simple explanation (for beginners)
2. Technical explanation (for developers)
3. Real-world use case example
4. Benefits compared to competitors

Avoid jargon, use analogies where helpful.`

// Builtin returns the built-in content templates.
func Builtin() []Template {
	bodies := []struct{ name, body string }{
		{TwitterAnnouncement, twitterAnnouncementBody},
		{TwitterThread, twitterThreadBody},
		{ProjectSummary, projectSummaryBody},
		{FeatureExplainer, featureExplainerBody},
	}

	out := make([]Template, 0, len(bodies))
	for _, b := range bodies {
		t, err := Parse(b.name, b.body)
		if err != nil {
			panic(err) // built-in bodies are constants
		}
		out = append(out, t)
	}

	return out
}

// Defaults returns a new Registry holding the built-in templates.
func Defaults() *Registry {
	return NewRegistry(Builtin()...)
}
