// Package engine defines the dispatch seam between the orchestration loop and
// the reasoning/tool-execution capability, plus a default implementation that
// drives a model/tool loop until a final answer emerges.
package engine

import (
	"context"
	"fmt"

	"github.com/hupe1980/coralmesh/core"
)

// Request carries one validated query into a dispatch together with the
// process-lifetime conversational state.
type Request struct {
	// Query is the instruction extracted from the mention content.
	Query string
	// State is the shared dispatch record; the engine records tool
	// invocations on it and the caller advances the step counter on success.
	State *core.ThreadState
	// History gives the engine short-term continuity over prior queries.
	// May be nil when the front end keeps no history.
	History *core.BoundedHistory
	// ToolCatalog is the serialized description of available actions.
	ToolCatalog string
}

// Result is a successful dispatch outcome.
type Result struct {
	// Answer is the human/agent-readable reply for the originating thread.
	Answer string
	// Step is the state counter value after this dispatch.
	Step int
}

// DispatchError reports a failed reasoning or tool-execution attempt. It is
// non-fatal: the orchestration loop converts it into an error reply so the
// sender is never left without an acknowledgement.
type DispatchError struct {
	Message string
	Err     error
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dispatch failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("dispatch failed: %s", e.Message)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Engine is the pluggable reasoning-and-tool-execution capability. A dispatch
// may perform any number of internal tool calls but must return within the
// caller's context; implementations should be idempotent with respect to
// caller retries.
type Engine interface {
	Dispatch(ctx context.Context, req Request) (*Result, error)
}
