package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/ecolearn/internal/llm"
	"github.com/Rrens/ecolearn/internal/llm/ollama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3", body["model"])
		assert.Equal(t, false, body["stream"])

		w.Write([]byte(`{"response":"Compost returns nutrients to soil.","done":true,"eval_count":9}`))
	}))
	defer srv.Close()

	p := ollama.NewProvider(srv.URL, "")
	assert.True(t, p.IsConfigured())

	resp, err := p.Generate(context.Background(), llm.Request{Prompt: "compost"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Compost returns nutrients to soil.", resp.Text)
	assert.Equal(t, 9, resp.TokensUsed)
}
