package input

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_NewestFirst(t *testing.T) {
	h := NewHistory(10)

	h.Add("How do I create a ticket?")
	h.Add("  What are the API rate limits?  ")

	assert.Equal(t, []string{"What are the API rate limits?", "How do I create a ticket?"}, h.Entries())
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(DefaultHistorySize)

	for i := 1; i <= 12; i++ {
		h.Add(fmt.Sprintf("question %d", i))
	}

	entries := h.Entries()
	assert.Len(t, entries, 10)
	assert.Equal(t, "question 12", entries[0])
	assert.Equal(t, "question 3", entries[9])
}

func TestHistory_RepeatMovesToFront(t *testing.T) {
	h := NewHistory(10)
	h.Add("a")
	h.Add("b")
	h.Add("a")

	assert.Equal(t, []string{"a", "b"}, h.Entries())
}

func TestHistory_IgnoresBlank(t *testing.T) {
	h := NewHistory(10)

	assert.Empty(t, h.Add("   "))
	assert.Equal(t, 0, h.Len())
}

func TestHistory_DefaultLimit(t *testing.T) {
	h := NewHistory(0)

	assert.Equal(t, DefaultHistorySize, h.limit)
}

func TestHistory_OlderNewer(t *testing.T) {
	h := NewHistory(10)
	h.Add("first")
	h.Add("second")

	q, ok := h.Older()
	assert.True(t, ok)
	assert.Equal(t, "second", q)

	q, ok = h.Older()
	assert.True(t, ok)
	assert.Equal(t, "first", q)

	_, ok = h.Older()
	assert.False(t, ok)

	q, ok = h.Newer()
	assert.True(t, ok)
	assert.Equal(t, "second", q)

	q, ok = h.Newer()
	assert.False(t, ok)
	assert.Empty(t, q)
}

func TestHistory_EntriesIsACopy(t *testing.T) {
	h := NewHistory(10)
	h.Add("first")

	entries := h.Entries()
	entries[0] = "changed"

	assert.Equal(t, "first", h.Entries()[0])
}
