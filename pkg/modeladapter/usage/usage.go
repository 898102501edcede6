// Package usage accumulates token usage reported by provider adapters.
package usage

import "sync"

// TokenCount holds prompt and completion token counts for a single generation.
// Estimated is set when the upstream did not report usage and the counts were
// derived from the character heuristic instead.
type TokenCount struct {
	PromptTokens     int
	CompletionTokens int
	Estimated        bool
}

// Total returns the sum of prompt and completion tokens.
func (tc TokenCount) Total() int {
	return tc.PromptTokens + tc.CompletionTokens
}

// Tracker keeps running totals across generations. It is safe for concurrent
// use; the zero value is ready to use.
type Tracker struct {
	mu        sync.Mutex
	calls     int
	estimated int
	total     TokenCount
	last      TokenCount
}

// Add records the usage of one generation.
func (t *Tracker) Add(tc TokenCount) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	if tc.Estimated {
		t.estimated++
	}
	t.total.PromptTokens += tc.PromptTokens
	t.total.CompletionTokens += tc.CompletionTokens
	t.last = tc
}

// Last returns the most recently recorded count.
// The bool is false when nothing has been recorded yet.
func (t *Tracker) Last() (TokenCount, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.last, t.calls > 0
}

// Total returns the aggregate count. Estimated is true when at least one of
// the recorded generations was estimated.
func (t *Tracker) Total() TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := t.total
	total.Estimated = t.estimated > 0
	return total
}

// Calls returns the number of recorded generations.
func (t *Tracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.calls
}

// Reset clears all recorded usage.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls = 0
	t.estimated = 0
	t.total = TokenCount{}
	t.last = TokenCount{}
}
