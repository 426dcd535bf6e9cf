package genai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "test-model",
	})
}

func TestClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "generated text"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	raw, err := client.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "generated text", raw)
}

func TestClientCompleteStatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		kind      ErrorKind
		retryable bool
	}{
		{"rate limited", http.StatusTooManyRequests, KindRateLimited, true},
		{"overloaded", http.StatusServiceUnavailable, KindOverloaded, true},
		{"gateway timeout", http.StatusGatewayTimeout, KindTimeout, true},
		{"internal error", http.StatusInternalServerError, KindTransient, true},
		{"unauthorized", http.StatusUnauthorized, KindBadCredentials, false},
		{"forbidden", http.StatusForbidden, KindBadCredentials, false},
		{"bad request", http.StatusBadRequest, KindMalformedRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error": {"message": "upstream says no"}}`))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.Complete(context.Background(), "prompt")
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestClientCompleteContentPolicy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "rejected", "code": "content_policy_violation"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, KindContentPolicy, KindOf(err))
	assert.True(t, IsTerminal(err))
}

func TestClientCompleteUnconfigured(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, KindUnconfigured, KindOf(err))
	assert.True(t, IsTerminal(err))
}

func TestClientCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, KindTransient, KindOf(err))
}
