package hub

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseMentions normalizes the hub's wait-for-mentions payload. The hub
// answers in one of three shapes:
//
//   - the bare sentinel string "No new messages"
//   - a JSON array of message objects
//   - a JSON object wrapping the array: {"messages": [...]}
//
// Anything else is a malformed payload.
func ParseMentions(raw []byte) (Outcome, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return Outcome{}, nil
	}

	// Sentinel may arrive bare or as a JSON string.
	if strings.Contains(trimmed, NoMessagesSentinel) && !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
		return Outcome{}, nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if strings.Contains(asString, NoMessagesSentinel) {
			return Outcome{}, nil
		}
		// A non-sentinel string payload may itself be encoded JSON.
		raw = []byte(asString)
		trimmed = strings.TrimSpace(asString)
	}

	if strings.HasPrefix(trimmed, "[") {
		var messages []Message
		if err := json.Unmarshal(raw, &messages); err != nil {
			return Outcome{}, fmt.Errorf("malformed mentions array: %w", err)
		}
		return Outcome{Messages: messages}, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var wrapper struct {
			Messages []Message `json:"messages"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return Outcome{}, fmt.Errorf("malformed mentions object: %w", err)
		}
		return Outcome{Messages: wrapper.Messages}, nil
	}

	return Outcome{}, fmt.Errorf("unrecognized mentions payload: %q", trimmed)
}
