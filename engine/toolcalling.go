package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/coralmesh/core"
	"github.com/hupe1980/coralmesh/internal/util"
	"github.com/hupe1980/coralmesh/logging"
	"github.com/hupe1980/coralmesh/model"
	"github.com/hupe1980/coralmesh/tool"
)

// defaultInstructions is rendered per dispatch with the tool catalog, history
// and dispatch record. The engine plans tool invocations against the catalog
// and must finish with a plain text answer for the originating thread.
const defaultInstructions = `You are an agent participating in a threaded multi-agent conversation system.
Your task is to perform the instruction contained in the user input, using only the tools listed below.
Check each tool schema before calling it and plan the steps needed to complete the instruction.
When you have executed the instruction to the best of your ability, answer with the outcome as plain text.
If the instruction cannot be completed, answer with a short error description instead of staying silent.

### Available Tools:
{{.ToolCatalog}}

### History (Previous Queries):
{{.History}}

### Dispatch Record:
{{.State}}`

// ToolCallingOptions configure the default engine.
type ToolCallingOptions struct {
	// Instructions overrides the system prompt template. The template
	// receives .ToolCatalog, .History and .State.
	Instructions string
	// MaxModelCalls bounds the model round trips per dispatch (0 = unlimited).
	MaxModelCalls int
	// Logger receives dispatch diagnostics.
	Logger logging.Logger
}

// ToolCallingEngine is the default Engine: it hands the query to a model
// together with the tool catalog and executes proposed tool calls until the
// model produces a plain text answer or the call limiter trips.
//
// Tool invocations are recorded on the request's ThreadState so subsequent
// dispatches can avoid redundant calls.
type ToolCallingEngine struct {
	model         model.Model
	catalog       *tool.Catalog
	instructions  string
	maxModelCalls int
	logger        logging.Logger
}

// NewToolCallingEngine constructs the default engine over a model and a tool
// catalog.
func NewToolCallingEngine(m model.Model, catalog *tool.Catalog, optFns ...func(o *ToolCallingOptions)) *ToolCallingEngine {
	opts := ToolCallingOptions{
		Instructions:  defaultInstructions,
		MaxModelCalls: 10,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &ToolCallingEngine{
		model:         m,
		catalog:       catalog,
		instructions:  opts.Instructions,
		maxModelCalls: opts.MaxModelCalls,
		logger:        opts.Logger,
	}
}

// Dispatch implements Engine.
func (e *ToolCallingEngine) Dispatch(ctx context.Context, req Request) (*Result, error) {
	if req.Query == "" {
		return nil, &DispatchError{Message: "empty query"}
	}
	if req.State == nil {
		return nil, &DispatchError{Message: "missing thread state"}
	}

	runID := util.NewID()
	logger := e.logger
	logger.Info("engine.dispatch.start", "run_id", runID, "step", req.State.Step())

	instructions, err := e.renderInstructions(req)
	if err != nil {
		return nil, &DispatchError{Message: "instruction rendering failed", Err: err}
	}

	messages := []model.Message{{Role: "user", Text: req.Query}}
	limiter := NewCallLimiter(e.maxModelCalls)

	for {
		if err := ctx.Err(); err != nil {
			return nil, &DispatchError{Message: "dispatch canceled", Err: err}
		}
		if err := limiter.Increment(); err != nil {
			return nil, &DispatchError{Message: "model call budget exhausted", Err: err}
		}

		start := time.Now()
		resp, err := e.model.Generate(ctx, model.Request{
			Instructions: instructions,
			Messages:     messages,
			Tools:        e.toolDefinitions(),
		})
		if err != nil {
			return nil, &DispatchError{Message: "model call failed", Err: err}
		}
		logger.Debug("engine.model.completed", "run_id", runID, "duration_ms", time.Since(start).Milliseconds(), "tool_calls", len(resp.ToolCalls))

		if len(resp.ToolCalls) == 0 {
			step := req.State.Advance()
			logger.Info("engine.dispatch.success", "run_id", runID, "step", step)
			return &Result{Answer: resp.Text, Step: step}, nil
		}

		messages = append(messages, model.Message{
			Role:      "assistant",
			Text:      resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			output := e.executeToolCall(ctx, logger, runID, req.State, call)
			messages = append(messages, model.Message{
				Role:       "tool",
				Text:       output,
				ToolCallID: call.ID,
			})
		}
	}
}

// executeToolCall runs a single proposed call, recording it on the thread
// state. Tool failures are fed back to the model as results rather than
// aborting the dispatch; the model decides whether to retry or answer.
func (e *ToolCallingEngine) executeToolCall(ctx context.Context, logger logging.Logger, runID string, state *core.ThreadState, call model.ToolCall) string {
	serialized := serializeCall(call)

	t, ok := e.catalog.Get(call.Name)
	if !ok {
		result := fmt.Sprintf("error: unknown tool %q", call.Name)
		state.RecordToolCall(serialized, result)
		logger.Warn("engine.tool.unknown", "run_id", runID, "tool", call.Name)
		return result
	}

	var args map[string]any
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			result := fmt.Sprintf("error: malformed arguments for %s: %v", call.Name, err)
			state.RecordToolCall(serialized, result)
			return result
		}
	}
	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	logging.LogToolCall(logger, call.Name, time.Since(start), err)
	if err != nil {
		output := fmt.Sprintf("error: %v", err)
		state.RecordToolCall(serialized, output)
		return output
	}

	output := fmt.Sprintf("%v", result)
	state.RecordToolCall(serialized, output)
	return output
}

func (e *ToolCallingEngine) renderInstructions(req Request) (string, error) {
	history := "None"
	if req.History != nil {
		history = req.History.Render()
	}
	return util.RenderTemplate(e.instructions, map[string]any{
		"ToolCatalog": req.ToolCatalog,
		"History":     history,
		"State":       req.State.Snapshot(),
	})
}

func (e *ToolCallingEngine) toolDefinitions() []model.ToolDefinition {
	tools := e.catalog.Tools()
	defs := make([]model.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		}
	}
	return defs
}

func serializeCall(call model.ToolCall) string {
	payload := map[string]any{"name": call.Name, "arguments": json.RawMessage(call.Arguments)}
	raw, err := json.Marshal(payload)
	if err != nil {
		return call.Name
	}
	return string(raw)
}

var _ Engine = (*ToolCallingEngine)(nil)
