package content_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/germanamz/cryptocontent/pkg/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTools_List(t *testing.T) {
	g := newGenerator(t, &fakeGen{}, nil)

	var names []string
	for _, tool := range g.Tools().Tools() {
		names = append(names, tool.Name)
		assert.True(t, json.Valid(tool.InputSchema), tool.Name)
		assert.NotEmpty(t, tool.Description)
	}

	assert.Equal(t, []string{
		content.ToolFeatureExplainer,
		content.ToolProjectDescription,
		content.ToolTwitterPost,
		content.ToolTwitterThread,
	}, names)
}

func TestTools_CallThread(t *testing.T) {
	gen := &fakeGen{text: "1/2 a\n2/2 b"}
	g := newGenerator(t, gen, content.NewStaticSource(nova()))

	res := g.Tools().Call(context.Background(), content.ToolTwitterThread,
		json.RawMessage(`{"project_id":"nova","topic":"fees","num_tweets":2}`))
	require.False(t, res.IsError, res.Content)

	var out content.Result
	require.NoError(t, json.Unmarshal([]byte(res.Content), &out))
	assert.Equal(t, content.StatusOK, out.Status)
	assert.Equal(t, fixedID, out.ID)
	require.Len(t, out.Tweets, 2)
	assert.Equal(t, "2/2 b", out.Tweets[1].Text)
}

func TestTools_CallNotImplemented(t *testing.T) {
	g := newGenerator(t, &fakeGen{}, nil)

	res := g.Tools().Call(context.Background(), content.ToolProjectDescription, json.RawMessage(`{"project_id":"nova"}`))
	require.False(t, res.IsError, res.Content)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &out))
	assert.Equal(t, "not_implemented", out["status"])
	assert.Equal(t, "Description generation not yet implemented", out["message"])
	assert.NotContains(t, out, "text")
}

func TestTools_CallErrors(t *testing.T) {
	g := newGenerator(t, &fakeGen{}, content.NewStaticSource(nova()))
	tb := g.Tools()

	res := tb.Call(context.Background(), content.ToolTwitterPost, json.RawMessage(`not json`))
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "invalid input")

	res = tb.Call(context.Background(), content.ToolTwitterPost, json.RawMessage(`{"project_id":"nova","type":"meme"}`))
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "unknown content type")

	res = tb.Call(context.Background(), content.ToolFeatureExplainer, json.RawMessage(`{"project_id":"nova"}`))
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "feature name is required")
}
