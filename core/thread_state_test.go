package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadState_AdvanceIsMonotonic(t *testing.T) {
	s := NewThreadState()
	assert.Equal(t, 0, s.Step())

	prev := 0
	for i := 0; i < 5; i++ {
		got := s.Advance()
		assert.Greater(t, got, prev)
		prev = got
	}
	assert.Equal(t, 5, s.Step())
}

func TestThreadState_RecordToolCall(t *testing.T) {
	s := NewThreadState()
	assert.Empty(t, s.LastToolCall())
	assert.Nil(t, s.LastToolResult())

	s.RecordToolCall(`{"name":"navigate","args":{"url":"google.com"}}`, "Loaded google.com")
	assert.Contains(t, s.LastToolCall(), "navigate")
	assert.Equal(t, "Loaded google.com", s.LastToolResult())
}

func TestThreadState_Snapshot(t *testing.T) {
	s := NewThreadState()
	assert.Equal(t, "step=0 last_tool_call=none last_tool_result=none", s.Snapshot())

	s.RecordToolCall("navigate", "ok")
	s.Advance()
	assert.Equal(t, "step=1 last_tool_call=navigate last_tool_result=ok", s.Snapshot())
}
