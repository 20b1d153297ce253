package machine

import (
	"sync"
	"time"
)

// defaultHistoryCapacity bounds the execution history buffer; the oldest
// entries are evicted once the capacity is exceeded.
const defaultHistoryCapacity = 100

// HistoryEntry is an immutable record of one completed execution attempt
// of a state.
type HistoryEntry struct {
	// State is the state that was executed.
	State string
	// Result is the final result of the attempt.
	Result Result
	// Duration is the wall-clock time the attempt took.
	Duration time.Duration
	// Timestamp is when the entry was recorded.
	Timestamp time.Time
	// RetryCount is the zero-based retry index at the time of recording.
	RetryCount int
	// ErrorMessage carries the handler or timeout error text, if any.
	ErrorMessage string
	// Metadata is a snapshot of the run's data bag at recording time.
	Metadata map[string]any
}

// Succeeded reports whether the attempt completed successfully.
func (e HistoryEntry) Succeeded() bool {
	return e.Result == Success
}

// Failed reports whether the attempt failed or timed out.
func (e HistoryEntry) Failed() bool {
	return e.Result == Failure || e.Result == Timeout
}

// ToMap serializes the entry to a plain key/value record for logging and
// inspection.
func (e HistoryEntry) ToMap() map[string]any {
	return map[string]any{
		"state":         e.State,
		"result":        string(e.Result),
		"duration_ms":   e.Duration.Milliseconds(),
		"timestamp":     e.Timestamp,
		"retry_count":   e.RetryCount,
		"error_message": e.ErrorMessage,
		"metadata":      e.Metadata,
	}
}

// historyBuffer is a bounded FIFO of history entries.
type historyBuffer struct {
	mu       sync.RWMutex
	entries  []HistoryEntry
	capacity int
}

func newHistoryBuffer(capacity int) *historyBuffer {
	if capacity <= 0 {
		capacity = defaultHistoryCapacity
	}

	return &historyBuffer{
		entries:  make([]HistoryEntry, 0, capacity),
		capacity: capacity,
	}
}

func (h *historyBuffer) append(entry HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, entry)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

// tail returns the last n entries, or all entries when n <= 0.
func (h *historyBuffer) tail(n int) []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	start := 0
	if n > 0 && n < len(h.entries) {
		start = len(h.entries) - n
	}

	out := make([]HistoryEntry, len(h.entries)-start)
	copy(out, h.entries[start:])

	return out
}
