package deepseek

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Provider) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewProvider(srv.URL, "test-key", "deepseek-chat", 5*time.Second)
}

func TestGenerateSuccess(t *testing.T) {
	var gotReq chatCompletionRequest
	var gotAuth string

	_, provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []chatCompletionChoice{
				{Message: chatMessage{Role: "assistant", Content: "Hello there"}},
			},
		})
	})

	reply, err := provider.Generate(context.Background(), "Say hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "deepseek-chat", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "Say hello", gotReq.Messages[0].Content)
}

func TestChatSendsFullHistory(t *testing.T) {
	var gotReq chatCompletionRequest

	_, provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []chatCompletionChoice{
				{Message: chatMessage{Role: "assistant", Content: "done"}},
			},
		})
	})

	history := []llm.Message{
		{Role: "system", Content: "Be brief."},
		{Role: "user", Content: "First question"},
		{Role: "assistant", Content: "First answer"},
		{Role: "user", Content: "Second question"},
	}

	_, err := provider.Chat(context.Background(), history, llm.WithMaxTokens(32), llm.WithModel("deepseek-reasoner"))
	require.NoError(t, err)

	assert.Len(t, gotReq.Messages, 4)
	assert.Equal(t, 32, gotReq.MaxTokens)
	assert.Equal(t, "deepseek-reasoner", gotReq.Model)
}

func TestGenerateEmptyChoices(t *testing.T) {
	_, provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatCompletionResponse{Choices: nil})
	})

	_, err := provider.Generate(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty or invalid")
}

func TestGenerateEmptyContent(t *testing.T) {
	_, provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []chatCompletionChoice{
				{Message: chatMessage{Role: "assistant", Content: ""}},
			},
		})
	})

	_, err := provider.Generate(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty or invalid")
}

func TestGenerateUpstreamError(t *testing.T) {
	_, provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := provider.Generate(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
