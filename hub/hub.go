// Package hub contains the client boundary to the Coral coordination server:
// the service that stores conversation threads, delivers mentions addressed to
// this agent and accepts replies. The hub itself is an external collaborator;
// this package only specifies and implements its interface surface (long-poll
// for mentions, send a threaded reply, thread/agent management).
package hub

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// NoMessagesSentinel is the literal payload the hub returns when a long poll
// expires without any new mentions.
const NoMessagesSentinel = "No new messages"

// Message is a single mention delivered by the hub. All three fields are
// required; a message missing any of them must not be dispatched.
type Message struct {
	ThreadID string `json:"threadId"`
	SenderID string `json:"senderId"`
	Content  string `json:"content"`
}

// Validate checks the required fields and returns a *ValidationError naming
// every missing one.
func (m Message) Validate() error {
	var missing []string
	if m.ThreadID == "" {
		missing = append(missing, "threadId")
	}
	if m.SenderID == "" {
		missing = append(missing, "senderId")
	}
	if m.Content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// ValidationError reports a mention with absent or empty required fields.
// It is a per-message, non-fatal condition: the loop notifies the sender
// (when derivable) and moves on.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("message missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Error is a transport-level hub failure (poll or send). Non-fatal: logged
// and retried on the next cycle.
type Error struct {
	Operation string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hub %s failed: %v", e.Operation, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Outcome is the normalized result of a mention poll. Exactly one of the two
// shapes applies: no messages (sleep and retry) or a batch of mentions.
type Outcome struct {
	Messages []Message
}

// Empty reports whether the poll produced nothing to do.
func (o Outcome) Empty() bool { return len(o.Messages) == 0 }

// Client is the process-wide hub connection, opened once at startup and
// reused for every poll and reply. Implementations must be safe for use from
// a single orchestration worker; no transactional semantics are required
// since each call is a single idempotent remote operation.
type Client interface {
	// WaitForMentions blocks for up to timeout awaiting mentions addressed to
	// this agent. A hub-side "no new messages" response is normalized into an
	// empty Outcome rather than an error.
	WaitForMentions(ctx context.Context, timeout time.Duration) (Outcome, error)

	// SendMessage posts content into the given thread mentioning the listed
	// agents.
	SendMessage(ctx context.Context, threadID, content string, mentions []string) error

	// CreateThread opens a new conversation thread including the listed
	// participants and returns its identifier.
	CreateThread(ctx context.Context, name string, participants []string) (string, error)

	// ListAgents returns the identifiers of agents currently registered with
	// the hub.
	ListAgents(ctx context.Context) ([]string, error)
}
