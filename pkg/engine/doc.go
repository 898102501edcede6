// Package engine is the composition root of the content generator. It loads
// configuration from YAML or the process environment, builds the LLM client,
// the prompt registry and the project source, and exposes the resulting
// content generator directly, as a toolbox, or over MCP.
package engine
