package input

import "strings"

// DefaultHistorySize is how many recent questions are kept.
const DefaultHistorySize = 10

// History keeps recent questions, newest first. Asking a question again
// moves it to the front instead of duplicating it.
type History struct {
	entries []string
	limit   int
	// cursor is the entry shown by Older/Newer; -1 means none.
	cursor int
}

// NewHistory creates a history holding at most limit questions.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{limit: limit, cursor: -1}
}

// Add records question and returns it trimmed, or "" if it is blank.
func (h *History) Add(question string) string {
	question = strings.TrimSpace(question)
	h.cursor = -1
	if question == "" {
		return ""
	}

	entries := make([]string, 0, h.limit)
	entries = append(entries, question)
	for _, e := range h.entries {
		if e != question && len(entries) < h.limit {
			entries = append(entries, e)
		}
	}
	h.entries = entries
	return question
}

// Entries returns the questions, newest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of questions kept.
func (h *History) Len() int {
	return len(h.entries)
}

// Older moves the cursor one question back in time.
func (h *History) Older() (string, bool) {
	if h.cursor+1 >= len(h.entries) {
		return "", false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Newer moves the cursor one question forward. Moving past the newest
// question returns "" and false.
func (h *History) Newer() (string, bool) {
	if h.cursor <= 0 {
		h.cursor = -1
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// ResetCursor forgets the recall position.
func (h *History) ResetCursor() {
	h.cursor = -1
}
