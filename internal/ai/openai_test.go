package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailmate/internal/config"
)

func newCompletionServer(t *testing.T, status int, body any) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"choices": []any{map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
	}
}

func TestOpenAIGenerateSendsSystemAndPayload(t *testing.T) {
	srv, captured := newCompletionServer(t, http.StatusOK, completion("Try Lisbon."))
	gen, err := NewOpenAIGenerator("sk-test", srv.URL, "")
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), GenerateRequest{
		SystemInstructions: "You are a travel planner.",
		UserPayload:        "Context:\n{}",
	})
	require.NoError(t, err)
	assert.Equal(t, "Try Lisbon.", text)

	assert.Equal(t, DefaultOpenAIModel, (*captured)["model"])
	msgs, ok := (*captured)["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "Context:\n{}", msgs[1].(map[string]any)["content"])
}

func TestOpenAIGenerateFailureKinds(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv, _ := newCompletionServer(t, http.StatusInternalServerError, map[string]any{
			"error": map[string]any{"message": "boom", "type": "server_error"},
		})
		gen := NewOllamaGenerator(srv.URL, "")
		_, err := gen.Generate(context.Background(), GenerateRequest{UserPayload: "x"})
		require.Error(t, err)
		assert.True(t, IsKind(err, KindStatus), "got %v", err)
	})

	t.Run("empty", func(t *testing.T) {
		srv, _ := newCompletionServer(t, http.StatusOK, completion("   "))
		gen := NewOllamaGenerator(srv.URL, "")
		_, err := gen.Generate(context.Background(), GenerateRequest{UserPayload: "x"})
		assert.True(t, IsKind(err, KindEmpty), "got %v", err)
	})

	t.Run("network", func(t *testing.T) {
		srv, _ := newCompletionServer(t, http.StatusOK, completion("unused"))
		url := srv.URL
		srv.Close()
		gen := NewOllamaGenerator(url, "")
		_, err := gen.Generate(context.Background(), GenerateRequest{UserPayload: "x"})
		assert.True(t, IsKind(err, KindNetwork), "got %v", err)
	})
}

func TestNewGeneratorSelectsProvider(t *testing.T) {
	gen, err := NewGenerator(context.Background(), config.AIConfig{Provider: "ollama"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", gen.Provider())

	_, err = NewGenerator(context.Background(), config.AIConfig{Provider: "openai"})
	assert.Error(t, err, "openai without a key must fail")

	_, err = NewGenerator(context.Background(), config.AIConfig{Provider: "watson"})
	assert.Error(t, err)
}

func TestGenerationErrorMessage(t *testing.T) {
	err := &GenerationError{Kind: KindStatus, Provider: "gemini", Status: 503}
	assert.Equal(t, "gemini: status failure (status 503)", err.Error())
	assert.Equal(t, KindStatus, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(assert.AnError))
}
