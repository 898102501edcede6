// Package providers groups the concrete provider adapters.
//
// Each sub-package implements [github.com/germanamz/cryptocontent/pkg/modeladapter.Generator]
// for one upstream chat-completion protocol:
//   - [github.com/germanamz/cryptocontent/pkg/providers/openai]: OpenAI Chat Completions
//   - [github.com/germanamz/cryptocontent/pkg/providers/anthropic]: Anthropic Messages
//   - [github.com/germanamz/cryptocontent/pkg/providers/bearer]: OpenAI-compatible REST APIs behind a bearer token (e.g. Nous Hermes)
//
// Adapters only translate requests and responses. Defaults, validation and
// retries belong to the caller, see pkg/llm.
package providers
