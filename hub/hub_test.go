package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		missing []string
	}{
		{
			name: "complete message",
			msg:  Message{ThreadID: "t1", SenderID: "a1", Content: "go to google"},
		},
		{
			name:    "missing content",
			msg:     Message{ThreadID: "t1", SenderID: "a1"},
			missing: []string{"content"},
		},
		{
			name:    "missing sender",
			msg:     Message{ThreadID: "t1", Content: "hi"},
			missing: []string{"senderId"},
		},
		{
			name:    "empty message",
			msg:     Message{},
			missing: []string{"threadId", "senderId", "content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if len(tt.missing) == 0 {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.missing, vErr.Missing)
		})
	}
}

func TestParseMentions_Sentinel(t *testing.T) {
	for _, payload := range []string{
		`No new messages`,
		`"No new messages"`,
		`"Timeout waiting for mentions: No new messages"`,
	} {
		outcome, err := ParseMentions([]byte(payload))
		require.NoError(t, err, "payload %q", payload)
		assert.True(t, outcome.Empty(), "payload %q", payload)
	}
}

func TestParseMentions_Array(t *testing.T) {
	raw := `[{"threadId":"t1","senderId":"a1","content":"go to google"},{"threadId":"t2","senderId":"a2","content":"scroll down"}]`

	outcome, err := ParseMentions([]byte(raw))
	require.NoError(t, err)
	require.Len(t, outcome.Messages, 2)
	assert.Equal(t, "t1", outcome.Messages[0].ThreadID)
	assert.Equal(t, "a1", outcome.Messages[0].SenderID)
	assert.Equal(t, "go to google", outcome.Messages[0].Content)
	assert.Equal(t, "t2", outcome.Messages[1].ThreadID)
}

func TestParseMentions_Wrapped(t *testing.T) {
	raw := `{"messages":[{"threadId":"t1","senderId":"a1","content":"hi"}]}`

	outcome, err := ParseMentions([]byte(raw))
	require.NoError(t, err)
	require.Len(t, outcome.Messages, 1)
	assert.Equal(t, "hi", outcome.Messages[0].Content)
}

func TestParseMentions_EncodedArrayString(t *testing.T) {
	raw := `"[{\"threadId\":\"t1\",\"senderId\":\"a1\",\"content\":\"hi\"}]"`

	outcome, err := ParseMentions([]byte(raw))
	require.NoError(t, err)
	require.Len(t, outcome.Messages, 1)
	assert.Equal(t, "t1", outcome.Messages[0].ThreadID)
}

func TestParseMentions_Empty(t *testing.T) {
	outcome, err := ParseMentions([]byte("  "))
	require.NoError(t, err)
	assert.True(t, outcome.Empty())
}

func TestParseMentions_Malformed(t *testing.T) {
	_, err := ParseMentions([]byte(`[{"threadId":`))
	assert.Error(t, err)
}
