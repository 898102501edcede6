// Package modeladapter defines the provider-agnostic generation contract and
// the shared plumbing concrete provider adapters are built on.
//
// It contains:
//   - [Request], [Result] and the [Generator] interface every adapter implements
//   - [ModelAdapter], an embeddable base struct with HTTP helpers, auth, custom headers and a usage tracker
//   - the error taxonomy ([ConfigurationError], [TransientError], [StatusError], [RateLimitError], [MalformedResponseError]) and [IsTransient]
//   - [RetryPolicy] and [Retrying], which wrap any Generator with bounded exponential backoff
//   - [CountTokens], the 1-token-per-4-characters heuristic
//   - [github.com/germanamz/cryptocontent/pkg/modeladapter/usage]: thread-safe token usage tracker
//
// This package contains no provider-specific code. Concrete adapters live in
// separate packages under pkg/providers that import modeladapter.
package modeladapter
