package llmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmitPromptSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer k1", r.Header.Get("Authorization"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "prompt body", req.Contents)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"reply text"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k1", time.Second)
	text, err := c.SubmitPrompt(context.Background(), "prompt body")
	assert.NoError(t, err)
	assert.Equal(t, "reply text", text)
}

func TestSubmitPromptUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to generate content."}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", time.Second)
	_, err := c.SubmitPrompt(context.Background(), "p")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to generate content.")
}

func TestSubmitPromptEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", time.Second)
	text, err := c.SubmitPrompt(context.Background(), "p")
	assert.NoError(t, err)
	assert.Empty(t, text)
}

func TestSubmitPromptTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", 20*time.Millisecond)
	_, err := c.SubmitPrompt(context.Background(), "p")
	assert.Error(t, err)
}
