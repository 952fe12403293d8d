package hub

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, "browser_agent", func(o *HTTPClientOptions) {
		o.Timeout = 2 * time.Second
	})
}

func TestHTTPClient_WaitForMentions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wait_for_mentions", r.URL.Path)
		assert.Equal(t, "browser_agent", r.URL.Query().Get("agentId"))

		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.EqualValues(t, 20000, payload["timeoutMs"])

		_, _ = w.Write([]byte(`[{"threadId":"t1","senderId":"a1","content":"go to google"}]`))
	})

	outcome, err := client.WaitForMentions(context.Background(), 20*time.Second)
	require.NoError(t, err)
	require.Len(t, outcome.Messages, 1)
	assert.Equal(t, "go to google", outcome.Messages[0].Content)
}

func TestHTTPClient_WaitForMentions_Sentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`"No new messages"`))
	})

	outcome, err := client.WaitForMentions(context.Background(), time.Second)
	require.NoError(t, err)
	assert.True(t, outcome.Empty())
}

func TestHTTPClient_SendMessage(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send_message", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`"ack"`))
	})

	err := client.SendMessage(context.Background(), "t1", "Loaded google.com", []string{"a1"})
	require.NoError(t, err)
	assert.Equal(t, "t1", got["threadId"])
	assert.Equal(t, "Loaded google.com", got["content"])
	assert.Equal(t, []any{"a1"}, got["mentions"])
}

func TestHTTPClient_TransportErrorIsHubError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := client.SendMessage(context.Background(), "t1", "x", []string{"a1"})
	var hubErr *Error
	require.ErrorAs(t, err, &hubErr)
	assert.Equal(t, "send_message", hubErr.Operation)
}

func TestHTTPClient_CreateThread(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create_thread", r.URL.Path)
		_, _ = w.Write([]byte(`{"threadId":"t-new"}`))
	})

	threadID, err := client.CreateThread(context.Background(), "browsing", []string{"browser_agent"})
	require.NoError(t, err)
	assert.Equal(t, "t-new", threadID)
}

func TestHTTPClient_ListAgents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["browser_agent","voice_agent"]`))
	})

	agents, err := client.ListAgents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"browser_agent", "voice_agent"}, agents)
}
