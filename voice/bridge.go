package voice

import (
	"context"
	"errors"
	"strings"

	"github.com/hupe1980/coralmesh/core"
	"github.com/hupe1980/coralmesh/engine"
	"github.com/hupe1980/coralmesh/logging"
)

// ErrNoInput is returned when neither an explicit query nor a transcript is
// available to dispatch.
var ErrNoInput = errors.New("no valid input or transcript available")

// BridgeOptions tune the conversation bridge.
type BridgeOptions struct {
	// History receives every successfully dispatched query; nil disables
	// history.
	History *core.BoundedHistory
	// ToolCatalog is embedded into each dispatch.
	ToolCatalog string
	// Logger receives bridge diagnostics.
	Logger logging.Logger
}

// Bridge hands operator input to the reasoning engine. The explicit text
// argument wins; when it is blank the freshest transcript utterance is used
// instead, so a spoken instruction works the same as a typed one.
type Bridge struct {
	engine      engine.Engine
	state       *core.ThreadState
	transcript  *Transcript
	history     *core.BoundedHistory
	toolCatalog string
	logger      logging.Logger
}

// NewBridge wires an engine and the shared transcript.
func NewBridge(eng engine.Engine, transcript *Transcript, optFns ...func(o *BridgeOptions)) *Bridge {
	opts := BridgeOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Bridge{
		engine:      eng,
		state:       core.NewThreadState(),
		transcript:  transcript,
		history:     opts.History,
		toolCatalog: opts.ToolCatalog,
		logger:      opts.Logger,
	}
}

// History returns the bridge's query history, nil when disabled.
func (b *Bridge) History() *core.BoundedHistory { return b.history }

// Dispatch resolves the effective query and runs it through the engine,
// single-shot. Only a successful dispatch lands in the history; a failed
// query is not context worth repeating back to the model.
func (b *Bridge) Dispatch(ctx context.Context, text string) (string, error) {
	query := strings.TrimSpace(text)
	if query == "" && b.transcript != nil {
		query = strings.TrimSpace(b.transcript.Latest())
		if query != "" {
			b.logger.Debug("voice.bridge.transcript_fallback")
		}
	}

	if query == "" {
		return "", ErrNoInput
	}

	result, err := b.engine.Dispatch(ctx, engine.Request{
		Query:       query,
		State:       b.state,
		History:     b.history,
		ToolCatalog: b.toolCatalog,
	})
	if err != nil {
		return "", err
	}

	if b.history != nil {
		b.history.Append(query)
	}

	return result.Answer, nil
}
