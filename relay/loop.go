// Package relay implements the mention-driven orchestration loop: poll the
// hub for mentions, validate them, dispatch each one through the engine and
// reply into the originating thread, then sleep and poll again, forever.
package relay

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/coralmesh/core"
	"github.com/hupe1980/coralmesh/engine"
	"github.com/hupe1980/coralmesh/hub"
	"github.com/hupe1980/coralmesh/logging"
)

// MissingFieldsReply is sent to the originating thread when a mention lacks
// required fields. The sender gets an acknowledgement even for garbage input.
const MissingFieldsReply = "Error: Missing message fields"

// Options tune the loop cadence.
type Options struct {
	// PollTimeout is the hub-side long-poll window per WaitForMentions call.
	PollTimeout time.Duration
	// PollInterval is the pause between iterations.
	PollInterval time.Duration
	// ErrorBackoff is the pause after a failed iteration.
	ErrorBackoff time.Duration
	// ToolCatalog is the serialized action catalog embedded into each dispatch.
	ToolCatalog string
	// Logger receives loop diagnostics.
	Logger logging.Logger
}

// Loop is the worker-side orchestration driver. A single Loop owns one
// ThreadState; Run processes mentions strictly sequentially, so the state
// never sees concurrent writers.
type Loop struct {
	client       hub.Client
	engine       engine.Engine
	state        *core.ThreadState
	pollTimeout  time.Duration
	pollInterval time.Duration
	errorBackoff time.Duration
	toolCatalog  string
	logger       logging.Logger
}

// NewLoop wires a hub client and a dispatch engine into a loop.
func NewLoop(client hub.Client, eng engine.Engine, optFns ...func(o *Options)) *Loop {
	opts := Options{
		PollTimeout:  30 * time.Second,
		PollInterval: 1 * time.Second,
		ErrorBackoff: 5 * time.Second,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Loop{
		client:       client,
		engine:       eng,
		state:        core.NewThreadState(),
		pollTimeout:  opts.PollTimeout,
		pollInterval: opts.PollInterval,
		errorBackoff: opts.ErrorBackoff,
		toolCatalog:  opts.ToolCatalog,
		logger:       opts.Logger,
	}
}

// State exposes the loop's dispatch record, mainly for inspection in tests
// and diagnostics.
func (l *Loop) State() *core.ThreadState { return l.state }

// Run polls until ctx is canceled. Every failure inside an iteration is
// logged and followed by a backoff; nothing short of ctx cancellation stops
// the loop.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("relay.loop.start", "poll_timeout_ms", l.pollTimeout.Milliseconds())

	for {
		if err := ctx.Err(); err != nil {
			l.logger.Info("relay.loop.stop", "reason", err.Error())
			return err
		}

		if err := l.runOnce(ctx); err != nil {
			l.logger.Warn("relay.iteration.failed", "error", err.Error())
			l.sleep(ctx, l.errorBackoff)
			continue
		}

		l.sleep(ctx, l.pollInterval)
	}
}

// RunOnce executes a single poll-and-process iteration.
func (l *Loop) RunOnce(ctx context.Context) error {
	return l.runOnce(ctx)
}

func (l *Loop) runOnce(ctx context.Context) error {
	outcome, err := l.client.WaitForMentions(ctx, l.pollTimeout)
	if err != nil {
		return err
	}

	if outcome.Empty() {
		l.logger.Debug("relay.poll.empty")
		return nil
	}

	l.logger.Info("relay.poll.received", "count", len(outcome.Messages))

	for _, msg := range outcome.Messages {
		l.handleMessage(ctx, msg)
	}

	return nil
}

// handleMessage processes one mention end to end. Every processed mention
// produces exactly one reply attempt: the engine's answer, an error
// description, or the missing-fields notice. Send failures are logged and
// not retried; the next poll cycle carries on regardless.
func (l *Loop) handleMessage(ctx context.Context, msg hub.Message) {
	if err := msg.Validate(); err != nil {
		l.logger.Warn("relay.message.invalid", "thread_id", msg.ThreadID, "sender_id", msg.SenderID, "error", err.Error())
		if msg.ThreadID == "" {
			return
		}
		var mentions []string
		if msg.SenderID != "" {
			mentions = []string{msg.SenderID}
		}
		l.reply(ctx, msg.ThreadID, MissingFieldsReply, mentions)
		return
	}

	l.logger.Info("relay.message.dispatch", "thread_id", msg.ThreadID, "sender_id", msg.SenderID, "step", l.state.Step())

	start := time.Now()
	result, err := l.engine.Dispatch(ctx, engine.Request{
		Query:       msg.Content,
		State:       l.state,
		ToolCatalog: l.toolCatalog,
	})
	if err != nil {
		logging.LogDispatch(l.logger, l.state.Step(), time.Since(start), err)
		l.reply(ctx, msg.ThreadID, errorReply(err), []string{msg.SenderID})
		return
	}
	logging.LogDispatch(l.logger, result.Step, time.Since(start), nil)

	answer := result.Answer
	if answer == "" {
		answer = "error: dispatch produced an empty answer"
	}

	l.reply(ctx, msg.ThreadID, answer, []string{msg.SenderID})
}

func (l *Loop) reply(ctx context.Context, threadID, content string, mentions []string) {
	if err := l.client.SendMessage(ctx, threadID, content, mentions); err != nil {
		l.logger.Warn("relay.reply.failed", "thread_id", threadID, "error", err.Error())
		return
	}
	l.logger.Debug("relay.reply.sent", "thread_id", threadID)
}

// sleep pauses for d, returning false if ctx ended first.
func (l *Loop) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// errorReply turns a dispatch failure into the short, descriptive reply the
// sender receives instead of silence.
func errorReply(err error) string {
	var dErr *engine.DispatchError
	if errors.As(err, &dErr) {
		return "error: " + dErr.Message
	}
	return "error: " + err.Error()
}
