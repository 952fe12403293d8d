package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/coralmesh/tool"
)

// fakeClient records calls for tool bridging tests.
type fakeClient struct {
	outcome   Outcome
	sent      []string
	threadIDs []string
}

func (f *fakeClient) WaitForMentions(_ context.Context, _ time.Duration) (Outcome, error) {
	return f.outcome, nil
}

func (f *fakeClient) SendMessage(_ context.Context, threadID, content string, _ []string) error {
	f.sent = append(f.sent, threadID+":"+content)
	return nil
}

func (f *fakeClient) CreateThread(_ context.Context, _ string, _ []string) (string, error) {
	f.threadIDs = append(f.threadIDs, "t-created")
	return "t-created", nil
}

func (f *fakeClient) ListAgents(_ context.Context) ([]string, error) {
	return []string{"browser_agent"}, nil
}

func catalogFor(c Client) *tool.Catalog {
	return tool.NewCatalog(Tools(c)...)
}

func TestTools_ExposesHubOperations(t *testing.T) {
	catalog := catalogFor(&fakeClient{})

	for _, name := range []string{"wait_for_mentions", "send_message", "create_thread", "list_agents"} {
		_, ok := catalog.Get(name)
		assert.True(t, ok, "missing tool %s", name)
	}
}

func TestTools_SchemasDerivedFromArgStructs(t *testing.T) {
	catalog := catalogFor(&fakeClient{})

	send, _ := catalog.Get("send_message")
	props, ok := send.Parameters()["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "threadId")
	assert.Contains(t, props, "content")
	assert.Contains(t, props, "mentions")
	assert.Equal(t, []string{"threadId", "content", "mentions"}, send.Parameters()["required"])

	// Missing required args are rejected before the hub is contacted.
	_, err := send.Call(context.Background(), map[string]any{"threadId": "t1"})
	var toolErr *tool.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestTools_WaitForMentionsSentinel(t *testing.T) {
	catalog := catalogFor(&fakeClient{})

	wait, _ := catalog.Get("wait_for_mentions")
	result, err := wait.Call(context.Background(), map[string]any{"timeoutMs": float64(1000)})
	require.NoError(t, err)
	assert.Equal(t, NoMessagesSentinel, result)
}

func TestTools_SendMessage(t *testing.T) {
	fc := &fakeClient{}
	catalog := catalogFor(fc)

	send, _ := catalog.Get("send_message")
	_, err := send.Call(context.Background(), map[string]any{
		"threadId": "t1",
		"content":  "done",
		"mentions": []any{"a1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1:done"}, fc.sent)
}

func TestTools_CreateThread(t *testing.T) {
	fc := &fakeClient{}
	catalog := catalogFor(fc)

	create, _ := catalog.Get("create_thread")
	result, err := create.Call(context.Background(), map[string]any{
		"threadName":     "browsing",
		"participantIds": []any{"browser_agent"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"threadId": "t-created"}, result)
}
