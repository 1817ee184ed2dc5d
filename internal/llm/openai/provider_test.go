package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/ecolearn/internal/llm"
	"github.com/Rrens/ecolearn/internal/llm/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		messages := body["messages"].([]any)
		require.Len(t, messages, 2)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Solar panels turn light into power."}}],"usage":{"total_tokens":42}}`))
	}))
	defer srv.Close()

	p := openai.NewProvider("sk-test", "").WithBaseURL(srv.URL)
	resp, err := p.Generate(context.Background(), llm.Request{SystemPrompt: "sys", Prompt: "solar"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Solar panels turn light into power.", resp.Text)
	assert.Equal(t, 42, resp.TokensUsed)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
}

func TestProvider_Generate_Errors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		p := openai.NewProvider("sk-test", "").WithBaseURL(srv.URL)
		_, err := p.Generate(context.Background(), llm.Request{Prompt: "x"}, "")
		assert.ErrorContains(t, err, "status 429")
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		p := openai.NewProvider("sk-test", "").WithBaseURL(srv.URL)
		_, err := p.Generate(context.Background(), llm.Request{Prompt: "x"}, "")
		assert.ErrorIs(t, err, llm.ErrEmptyResponse)
	})

	t.Run("not configured", func(t *testing.T) {
		p := openai.NewProvider("", "")
		assert.False(t, p.IsConfigured())
		_, err := p.Generate(context.Background(), llm.Request{Prompt: "x"}, "")
		assert.Error(t, err)
	})
}

func TestNewCompatible(t *testing.T) {
	p := openai.NewCompatible("deepseek", "key", "deepseek-chat", "https://example.invalid", []string{"deepseek-chat"})
	assert.Equal(t, "deepseek", p.Name())
	assert.Equal(t, "deepseek-chat", p.DefaultModel())
	assert.Equal(t, []string{"deepseek-chat"}, p.AvailableModels())
}
