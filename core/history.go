package core

import (
	"fmt"
	"strings"
)

// DefaultHistoryCapacity is the number of prior queries retained for prompt
// continuity.
const DefaultHistoryCapacity = 3

// BoundedHistory is a fixed-capacity FIFO of past user queries. Appending
// beyond capacity evicts the oldest entry, so the length never exceeds the
// configured capacity.
//
// It is owned by a single conversational flow and is not safe for concurrent
// use.
type BoundedHistory struct {
	capacity int
	items    []string
}

// NewBoundedHistory creates a history bound to the given capacity.
// A capacity <= 0 falls back to DefaultHistoryCapacity.
func NewBoundedHistory(capacity int) *BoundedHistory {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &BoundedHistory{capacity: capacity}
}

// Append adds a query, evicting the oldest entry when full.
func (h *BoundedHistory) Append(query string) {
	h.items = append(h.items, query)
	if len(h.items) > h.capacity {
		h.items = h.items[len(h.items)-h.capacity:]
	}
}

// Len returns the number of retained queries.
func (h *BoundedHistory) Len() int { return len(h.items) }

// Capacity returns the maximum number of retained queries.
func (h *BoundedHistory) Capacity() int { return h.capacity }

// Items returns a defensive copy of the retained queries in insertion order,
// oldest first.
func (h *BoundedHistory) Items() []string {
	out := make([]string, len(h.items))
	copy(out, h.items)
	return out
}

// Render formats the history as a numbered list for prompt embedding, or
// "None" when empty.
func (h *BoundedHistory) Render() string {
	if len(h.items) == 0 {
		return "None"
	}
	var b strings.Builder
	for i, q := range h.items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, q)
	}
	return b.String()
}
