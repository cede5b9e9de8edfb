package chat

import (
	"sync"
	"time"

	"kontor/internal/llm"
)

// History is the bounded, append-only conversation log for one session.
// Entries are never mutated after append; the only destructive
// operation is a whole-history Clear.
type History struct {
	mu      sync.RWMutex
	entries []llm.Message
}

func NewHistory() *History {
	return &History{}
}

// Append adds one role-tagged entry to the end of the log
func (h *History) Append(role llm.Role, content string) {
	h.AppendMessage(llm.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// AppendMessage adds a prebuilt entry (used for assistant messages that
// carry tool calls)
func (h *History) AppendMessage(msg llm.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, msg)
}

// Recent returns the last n entries, oldest first. The result is a
// copy; repeated calls without an intervening Append return identical
// sequences.
func (h *History) Recent(n int) []llm.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || len(h.entries) == 0 {
		return nil
	}
	start := len(h.entries) - n
	if start < 0 {
		start = 0
	}
	return append([]llm.Message(nil), h.entries[start:]...)
}

// Len returns the number of entries
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Clear empties the history
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
