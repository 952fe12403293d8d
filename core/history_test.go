package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundedHistory_NeverExceedsCapacity(t *testing.T) {
	h := NewBoundedHistory(3)

	h.Append("one")
	h.Append("two")
	h.Append("three")
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"one", "two", "three"}, h.Items())

	// Fourth insert evicts the oldest; the three most recent remain in order.
	h.Append("four")
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"two", "three", "four"}, h.Items())
	assert.NotContains(t, h.Items(), "one")
}

func TestBoundedHistory_DefaultCapacity(t *testing.T) {
	h := NewBoundedHistory(0)
	assert.Equal(t, DefaultHistoryCapacity, h.Capacity())
}

func TestBoundedHistory_Render(t *testing.T) {
	h := NewBoundedHistory(3)
	assert.Equal(t, "None", h.Render())

	h.Append("go to google")
	h.Append("click store")
	assert.Equal(t, "1. go to google\n2. click store", h.Render())
}

func TestBoundedHistory_ItemsIsACopy(t *testing.T) {
	h := NewBoundedHistory(3)
	h.Append("a")

	items := h.Items()
	items[0] = "mutated"
	assert.Equal(t, []string{"a"}, h.Items())
}
