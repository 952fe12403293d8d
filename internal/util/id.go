package util

import "github.com/google/uuid"

// NewID returns a fresh identifier suitable for correlating dispatches,
// sessions and log entries.
func NewID() string {
	return uuid.NewString()
}
