package coralmesh

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/coralmesh/config"
	"github.com/hupe1980/coralmesh/frontend"
	"github.com/hupe1980/coralmesh/hub"
	"github.com/hupe1980/coralmesh/model"
)

type stubHub struct {
	sent []string
}

func (s *stubHub) WaitForMentions(_ context.Context, _ time.Duration) (hub.Outcome, error) {
	return hub.Outcome{}, nil
}

func (s *stubHub) SendMessage(_ context.Context, _, content string, _ []string) error {
	s.sent = append(s.sent, content)
	return nil
}

func (s *stubHub) CreateThread(_ context.Context, _ string, _ []string) (string, error) {
	return "t1", nil
}

func (s *stubHub) ListAgents(_ context.Context) ([]string, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		HubURL:         "http://localhost:5555",
		AgentID:        "test-agent",
		RequestTimeout: 30 * time.Second,
		Model:          config.ModelConfig{Provider: "openai"},
	}
}

func TestNew_DefaultsAndOverrides(t *testing.T) {
	h := &stubHub{}
	m := model.NewMockModel("mock")

	mesh, err := New(testConfig(), func(o *Options) {
		o.HubClient = h
		o.Model = m
	})
	require.NoError(t, err)

	assert.Same(t, h, mesh.HubClient())
	assert.NotNil(t, mesh.Engine())
	assert.Equal(t, 4, mesh.Catalog().Len(), "hub operations are exposed as tools")
}

func TestNew_UnsupportedProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Provider = "cohere"

	_, err := New(cfg)
	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
}

func TestMesh_RelayLoopCatalog(t *testing.T) {
	mesh, err := New(testConfig(), func(o *Options) {
		o.HubClient = &stubHub{}
		o.Model = model.NewMockModel("mock")
	})
	require.NoError(t, err)

	loop := mesh.RelayLoop()
	require.NotNil(t, loop)
	assert.Equal(t, 0, loop.State().Step())

	desc := mesh.Catalog().Describe()
	for _, name := range []string{"wait_for_mentions", "send_message", "create_thread", "list_agents"} {
		assert.Contains(t, desc, "Tool: "+name)
	}
}

func TestMesh_FrontendWithoutProvider(t *testing.T) {
	h := &stubHub{}
	m := model.NewMockModel("mock")
	m.Script(model.Response{Text: "hello back", FinishReason: "stop"})

	mesh, err := New(testConfig(), func(o *Options) {
		o.HubClient = h
		o.Model = m
	})
	require.NoError(t, err)

	sel := mesh.Frontend(frontend.NewReaderSource(strings.NewReader("hello\nquit\n")), nil)
	require.NoError(t, sel.Run(context.Background()))
}

var _ hub.Client = (*stubHub)(nil)
