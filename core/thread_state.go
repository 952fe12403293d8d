package core

import "fmt"

// ThreadState tracks the mutable dispatch record for the lifetime of the
// process: the most recent tool invocation, its result and a monotonically
// increasing step counter.
//
// Contract:
//   - Step starts at 0 and only ever increases (Advance once per successful dispatch)
//   - LastToolCall / LastToolResult reflect the most recent recorded invocation
//   - A single dispatch is in flight at a time, so ThreadState is written by
//     exactly one goroutine; it needs no locking by construction
//   - Not persisted across restarts
type ThreadState struct {
	lastToolCall   string
	lastToolResult any
	step           int
}

// NewThreadState returns an empty state with the step counter at zero.
func NewThreadState() *ThreadState {
	return &ThreadState{}
}

// RecordToolCall stores the serialized description and result of the most
// recent tool invocation.
func (s *ThreadState) RecordToolCall(call string, result any) {
	s.lastToolCall = call
	s.lastToolResult = result
}

// Advance increments the step counter and returns the new value.
func (s *ThreadState) Advance() int {
	s.step++
	return s.step
}

// Step returns the current step counter.
func (s *ThreadState) Step() int { return s.step }

// LastToolCall returns the serialized description of the most recent tool
// invocation, or the empty string if none has been recorded.
func (s *ThreadState) LastToolCall() string { return s.lastToolCall }

// LastToolResult returns the opaque result of the most recent tool invocation.
func (s *ThreadState) LastToolResult() any { return s.lastToolResult }

// Snapshot renders the state for embedding into a prompt.
func (s *ThreadState) Snapshot() string {
	call := s.lastToolCall
	if call == "" {
		call = "none"
	}
	result := "none"
	if s.lastToolResult != nil {
		result = fmt.Sprintf("%v", s.lastToolResult)
	}
	return fmt.Sprintf("step=%d last_tool_call=%s last_tool_result=%s", s.step, call, result)
}
