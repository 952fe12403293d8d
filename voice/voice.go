// Package voice wraps a real-time speech conversation behind a provider
// boundary: a session manager that bounds every session at a hard deadline,
// a shared transcript fed by provider callbacks, and a bridge that turns the
// freshest spoken input into a dispatch through the reasoning engine.
package voice

import (
	"context"
	"fmt"
	"sync"
)

// Callbacks receive provider events during a running session. Any field may
// be nil; providers must skip nil callbacks.
type Callbacks struct {
	// OnAgentResponse fires when the remote voice agent speaks.
	OnAgentResponse func(text string)
	// OnAgentResponseCorrection fires when the agent revises an earlier
	// utterance.
	OnAgentResponseCorrection func(original, corrected string)
	// OnUserTranscript fires with the transcription of the operator's speech.
	OnUserTranscript func(text string)
	// OnLatencyMeasurement reports provider round-trip latency.
	OnLatencyMeasurement func(latencyMs int)
}

// Provider is the speech transport boundary. Implementations own the audio
// I/O and the remote conversational session; this package only drives their
// lifecycle.
type Provider interface {
	// Start opens the session and begins delivering callbacks. It returns
	// once the session is established, not when it ends.
	Start(ctx context.Context, cb Callbacks) error

	// Done yields the provider-side conversation identifier exactly once,
	// when the session ends on its own.
	Done() <-chan string

	// EndSession tears the session down. Idempotence is not required of the
	// provider; the session manager guarantees at most one call.
	EndSession(ctx context.Context) error
}

// SessionError reports a voice session fault. Non-fatal: the session ends
// and control returns to the text front end.
type SessionError struct {
	Stage string
	Err   error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("voice session %s failed: %v", e.Stage, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// Transcript holds the freshest operator utterance, written by the provider
// callback goroutine and read by the bridge.
type Transcript struct {
	mu     sync.RWMutex
	latest string
}

// Set records a new utterance, replacing the previous one.
func (t *Transcript) Set(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest = text
}

// Latest returns the most recent utterance, empty when nothing was heard.
func (t *Transcript) Latest() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest
}

// Clear resets the transcript, typically between sessions.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest = ""
}
