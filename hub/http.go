package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hupe1980/coralmesh/logging"
)

// HTTPClient talks to a Coral hub over its HTTP tool endpoints. The agent
// announces itself via agentId/agentDescription query parameters on every
// call, mirroring the hub's SSE registration contract.
type HTTPClient struct {
	baseURL     string
	agentID     string
	description string
	timeout     time.Duration
	httpClient  *http.Client
	logger      logging.Logger
}

// HTTPClientOptions configure the hub HTTP client.
type HTTPClientOptions struct {
	// Timeout bounds each ordinary hub round trip. Long polls get the poll
	// timeout plus this value as grace.
	Timeout time.Duration
	// HTTPClient overrides the underlying client (tests). It must not carry
	// its own Timeout or long polls will be cut short.
	HTTPClient *http.Client
	// Logger receives hub call diagnostics.
	Logger logging.Logger
	// AgentDescription is announced to the hub on every call.
	AgentDescription string
}

// NewHTTPClient creates a hub client for the given base URL and agent
// identity.
func NewHTTPClient(baseURL, agentID string, optFns ...func(o *HTTPClientOptions)) *HTTPClient {
	opts := HTTPClientOptions{
		Timeout:          30 * time.Second,
		Logger:           logging.NoOpLogger{},
		AgentDescription: "Coral mesh agent",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &HTTPClient{
		baseURL:     baseURL,
		agentID:     agentID,
		description: opts.AgentDescription,
		timeout:     opts.Timeout,
		httpClient:  httpClient,
		logger:      opts.Logger,
	}
}

// endpoint builds the operation URL with the agent registration parameters.
func (c *HTTPClient) endpoint(operation string) string {
	params := url.Values{}
	params.Set("agentId", c.agentID)
	params.Set("agentDescription", c.description)
	return fmt.Sprintf("%s/%s?%s", c.baseURL, operation, params.Encode())
}

// call POSTs a JSON payload to a hub operation and returns the raw response
// body. When the caller has not already bounded the context, the configured
// per-call timeout applies.
func (c *HTTPClient) call(ctx context.Context, operation string, payload any) ([]byte, error) {
	if _, bounded := ctx.Deadline(); !bounded {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Operation: operation, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(operation), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Operation: operation, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	raw, err := c.roundTrip(req)
	logging.LogHubCall(c.logger, operation, time.Since(start), err)
	if err != nil {
		return nil, &Error{Operation: operation, Err: err}
	}

	return raw, nil
}

func (c *HTTPClient) roundTrip(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, raw)
	}

	return raw, nil
}

// WaitForMentions implements Client. The hub holds the request open for up to
// the given timeout; the sentinel response normalizes to an empty Outcome.
func (c *HTTPClient) WaitForMentions(ctx context.Context, timeout time.Duration) (Outcome, error) {
	// The request deadline must outlive the hub-side long poll.
	ctx, cancel := context.WithTimeout(ctx, timeout+c.timeout)
	defer cancel()

	c.logger.Debug("hub.wait_for_mentions", "timeout_ms", timeout.Milliseconds())

	raw, err := c.call(ctx, "wait_for_mentions", map[string]any{
		"timeoutMs": timeout.Milliseconds(),
	})
	if err != nil {
		return Outcome{}, err
	}

	outcome, err := ParseMentions(raw)
	if err != nil {
		return Outcome{}, &Error{Operation: "wait_for_mentions", Err: err}
	}
	return outcome, nil
}

// SendMessage implements Client.
func (c *HTTPClient) SendMessage(ctx context.Context, threadID, content string, mentions []string) error {
	c.logger.Debug("hub.send_message", "thread_id", threadID, "mentions", mentions)

	_, err := c.call(ctx, "send_message", map[string]any{
		"threadId": threadID,
		"content":  content,
		"mentions": mentions,
	})
	return err
}

// CreateThread implements Client.
func (c *HTTPClient) CreateThread(ctx context.Context, name string, participants []string) (string, error) {
	raw, err := c.call(ctx, "create_thread", map[string]any{
		"threadName":     name,
		"participantIds": participants,
		"creatorId":      c.agentID,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		ThreadID string `json:"threadId"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || resp.ThreadID == "" {
		return "", &Error{Operation: "create_thread", Err: fmt.Errorf("malformed response: %s", raw)}
	}
	return resp.ThreadID, nil
}

// ListAgents implements Client.
func (c *HTTPClient) ListAgents(ctx context.Context) ([]string, error) {
	raw, err := c.call(ctx, "list_agents", map[string]any{})
	if err != nil {
		return nil, err
	}

	var agents []string
	if err := json.Unmarshal(raw, &agents); err == nil {
		return agents, nil
	}
	var wrapper struct {
		Agents []string `json:"agents"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, &Error{Operation: "list_agents", Err: fmt.Errorf("malformed response: %s", raw)}
	}
	return wrapper.Agents, nil
}

var _ Client = (*HTTPClient)(nil)
