package bearer_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/cryptocontent/pkg/modeladapter"
	"github.com/germanamz/cryptocontent/pkg/providers/bearer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *bearer.Adapter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := bearer.New(srv.URL+"/", "hermes-key", "Hermes-4-70B", srv.Client())

	return srv, a
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	var body []byte

	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, bearer.CompletionsPath, r.URL.Path)
		assert.Equal(t, "Bearer hermes-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var err error
		body, err = io.ReadAll(r.Body)
		assert.NoError(t, err)

		writeJSON(t, w, map[string]any{
			"id":      "cmpl-1",
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": "Paris."}}},
		})
	})

	res, err := adapter.Generate(context.Background(), modeladapter.Request{
		Prompt:       "What is the capital of France?",
		SystemPrompt: "Keep your responses concise.",
		MaxTokens:    100,
		Temperature:  0.7,
		JSONMode:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris.", res.Text)

	assert.JSONEq(t, `{
		"model": "Hermes-4-70B",
		"messages": [
			{"role": "system", "content": "Keep your responses concise."},
			{"role": "user", "content": "What is the capital of France?"}
		],
		"max_tokens": 100,
		"temperature": 0.7
	}`, string(body))
}

func TestGenerate_EstimatesUsageWhenMissing(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "abcdefgh"}}},
		})
	})

	res, err := adapter.Generate(context.Background(), modeladapter.Request{Prompt: "abcd", MaxTokens: 5})
	require.NoError(t, err)

	assert.True(t, res.Usage.Estimated)
	assert.Equal(t, 1, res.Usage.PromptTokens)
	assert.Equal(t, 2, res.Usage.CompletionTokens)
}

func TestGenerate_MalformedResponse(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{}}]}`))
	})

	_, err := adapter.Generate(context.Background(), modeladapter.Request{Prompt: "p", MaxTokens: 5})

	var mre *modeladapter.MalformedResponseError
	require.ErrorAs(t, err, &mre)
	assert.ErrorContains(t, err, "bearer:")
}

func TestGenerate_BlankContentIsMalformed(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":" \n\t "}}]}`))
	})

	_, err := adapter.Generate(context.Background(), modeladapter.Request{Prompt: "p", MaxTokens: 5})

	var mre *modeladapter.MalformedResponseError
	require.ErrorAs(t, err, &mre)
	assert.True(t, modeladapter.IsTransient(err))
}

func TestGenerate_UnauthorizedIsNotTransient(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := adapter.Generate(context.Background(), modeladapter.Request{Prompt: "p", MaxTokens: 5})
	require.Error(t, err)
	assert.False(t, modeladapter.IsTransient(err))
}
