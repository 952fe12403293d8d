package voice

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/coralmesh/internal/util"
	"github.com/hupe1980/coralmesh/logging"
)

// DefaultSessionTimeout is the hard ceiling on a single voice session.
const DefaultSessionTimeout = 120 * time.Second

// EndReason states how a session ended.
type EndReason string

const (
	// Completed means the provider finished on its own before the deadline.
	Completed EndReason = "completed"
	// TimedOut means the session hit the hard deadline and was torn down.
	TimedOut EndReason = "timed_out"
	// Interrupted means an external interrupt ended the session early.
	Interrupted EndReason = "interrupted"
	// Errored means the provider failed to start or tear down cleanly.
	Errored EndReason = "errored"
)

// Ended is the terminal record of a session.
type Ended struct {
	Reason         EndReason
	ConversationID string
	Duration       time.Duration
	Err            error
}

// SessionOptions tune the session manager.
type SessionOptions struct {
	// Timeout bounds the session; zero means DefaultSessionTimeout.
	Timeout time.Duration
	// Logger receives session lifecycle events.
	Logger logging.Logger
}

// SessionManager runs bounded voice sessions over a Provider. Each session
// races three outcomes: the provider ending on its own, the hard deadline,
// and an external interrupt. Whatever wins, the provider's EndSession is
// issued at most once and the operator regains control.
type SessionManager struct {
	provider   Provider
	transcript *Transcript
	timeout    time.Duration
	logger     logging.Logger
}

// NewSessionManager wires a provider and a shared transcript.
func NewSessionManager(provider Provider, transcript *Transcript, optFns ...func(o *SessionOptions)) *SessionManager {
	opts := SessionOptions{
		Timeout: DefaultSessionTimeout,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSessionTimeout
	}

	return &SessionManager{
		provider:   provider,
		transcript: transcript,
		timeout:    opts.Timeout,
		logger:     opts.Logger,
	}
}

// Run drives one session to completion. The interrupt channel may be nil
// when the caller has no interrupt source. An interrupt is a normal end, not
// an error; only provider faults surface as Errored.
func (m *SessionManager) Run(ctx context.Context, interrupt <-chan struct{}, cb Callbacks) Ended {
	start := time.Now()

	cb = m.withTranscript(cb)

	if err := m.provider.Start(ctx, cb); err != nil {
		return Ended{
			Reason:   Errored,
			Duration: time.Since(start),
			Err:      &SessionError{Stage: "start", Err: err},
		}
	}

	m.logger.Info("voice.session.start", "timeout_ms", m.timeout.Milliseconds())

	deadline := time.NewTimer(m.timeout)
	defer deadline.Stop()

	var endOnce sync.Once
	endSession := func() error {
		var err error
		endOnce.Do(func() {
			err = m.provider.EndSession(ctx)
		})
		return err
	}

	var ended Ended

	select {
	case conversationID := <-m.provider.Done():
		if conversationID == "" {
			conversationID = util.NewID()
		}
		ended = Ended{Reason: Completed, ConversationID: conversationID}

	case <-deadline.C:
		m.logger.Warn("voice.session.timeout", "timeout_ms", m.timeout.Milliseconds())
		if err := endSession(); err != nil {
			ended = Ended{Reason: Errored, Err: &SessionError{Stage: "end", Err: err}}
			break
		}
		ended = Ended{Reason: TimedOut, ConversationID: m.drainConversationID()}

	case <-interrupt:
		m.logger.Info("voice.session.interrupted")
		if err := endSession(); err != nil {
			ended = Ended{Reason: Errored, Err: &SessionError{Stage: "end", Err: err}}
			break
		}
		ended = Ended{Reason: Interrupted, ConversationID: m.drainConversationID()}

	case <-ctx.Done():
		endSession()
		ended = Ended{Reason: Interrupted, Err: ctx.Err()}
	}

	ended.Duration = time.Since(start)
	m.logger.Info("voice.session.end", "reason", string(ended.Reason), "duration_ms", ended.Duration.Milliseconds())

	return ended
}

// withTranscript wraps the caller's callbacks so every user utterance also
// lands in the shared transcript.
func (m *SessionManager) withTranscript(cb Callbacks) Callbacks {
	userTranscript := cb.OnUserTranscript
	cb.OnUserTranscript = func(text string) {
		if m.transcript != nil {
			m.transcript.Set(text)
		}
		if userTranscript != nil {
			userTranscript(text)
		}
	}
	return cb
}

// drainConversationID collects the conversation ID if the provider manages
// to deliver one shortly after teardown, falling back to a generated one.
func (m *SessionManager) drainConversationID() string {
	select {
	case id := <-m.provider.Done():
		if id != "" {
			return id
		}
	case <-time.After(100 * time.Millisecond):
	}
	return util.NewID()
}
