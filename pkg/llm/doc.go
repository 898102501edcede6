// Package llm provides the unified LLM client: one Generate call surface that
// routes to the provider adapter selected at construction time and applies a
// uniform retry policy to every call.
//
// A Client is bound to exactly one provider. Configuration is validated
// eagerly in [New]; a Client that was constructed successfully only fails at
// call time for network, status, or response-shape reasons.
package llm
