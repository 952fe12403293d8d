package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level LogLevel) (*CoralLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  level,
		Format: "json",
		Output: &buf,
	})
	return logger, &buf
}

func TestCoralLogger_KeyValueAttrs(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	logger.Info("relay.poll.received", "count", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "relay.poll.received", entry["msg"])
	assert.Equal(t, float64(3), entry["count"])
}

func TestCoralLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("visible")
	assert.NotZero(t, buf.Len())
}

func TestCoralLogger_ContextPropagation(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	logger.WithAgent("browser-agent").WithThread("t1").Info("dispatching")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "browser-agent", entry["agent_id"])
	assert.Equal(t, "t1", entry["thread_id"])
}

func TestCoralLogger_ErrorWithStack(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	logger.ErrorWithStack(errors.New("boom"), "dispatch failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
	assert.NotEmpty(t, entry["stack_trace"])
}

func TestLogHubCall(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelDebug)

	LogHubCall(logger, "wait_for_mentions", 120*time.Millisecond, nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Hub call completed", entry["msg"])
	assert.Equal(t, "wait_for_mentions", entry["hub_operation"])
	assert.Equal(t, true, entry["success"])

	buf.Reset()
	LogHubCall(logger, "send_message", time.Millisecond, errors.New("503"))

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Hub call failed", entry["msg"])
	assert.Equal(t, "503", entry["error"])
}

func TestLogDispatch(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	LogDispatch(logger, 3, 50*time.Millisecond, nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Dispatch completed", entry["msg"])
	assert.Equal(t, float64(3), entry["step"])

	buf.Reset()
	LogDispatch(logger, 3, time.Millisecond, errors.New("model call failed"))

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Dispatch failed", entry["msg"])
	assert.Equal(t, "model call failed", entry["error"])
}

func TestLogToolCall(t *testing.T) {
	logger, buf := newBufferedLogger(LogLevelInfo)

	LogToolCall(logger, "send_message", 10*time.Millisecond, nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Tool execution completed", entry["msg"])
	assert.Equal(t, "send_message", entry["tool_name"])

	buf.Reset()
	LogToolCall(logger, "navigate", time.Millisecond, errors.New("boom"))

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Tool execution failed", entry["msg"])
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, LogLevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("bogus"))
}
