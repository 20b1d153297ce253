package machine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryBufferEvictsOldest(t *testing.T) {
	t.Parallel()

	buf := newHistoryBuffer(3)

	for _, state := range []string{"a", "b", "c", "d", "e"} {
		buf.append(HistoryEntry{State: state})
	}

	entries := buf.tail(0)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].State)
	assert.Equal(t, "e", entries[2].State)
}

func TestHistoryBufferTailLimit(t *testing.T) {
	t.Parallel()

	buf := newHistoryBuffer(10)
	buf.append(HistoryEntry{State: "a"})
	buf.append(HistoryEntry{State: "b"})
	buf.append(HistoryEntry{State: "c"})

	assert.Len(t, buf.tail(0), 3)
	assert.Len(t, buf.tail(-1), 3)
	assert.Len(t, buf.tail(5), 3)

	last := buf.tail(2)
	require.Len(t, last, 2)
	assert.Equal(t, "b", last[0].State)
}

func TestHistoryEntryPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		result    Result
		succeeded bool
		failed    bool
	}{
		{Success, true, false},
		{Failure, false, true},
		{Timeout, false, true},
		{Retry, false, false},
		{Skip, false, false},
	}

	for _, tt := range tests {
		entry := HistoryEntry{Result: tt.result}

		assert.Equal(t, tt.succeeded, entry.Succeeded(), "Succeeded for %s", tt.result)
		assert.Equal(t, tt.failed, entry.Failed(), "Failed for %s", tt.result)
	}
}

func TestHistoryEntryToMap(t *testing.T) {
	t.Parallel()

	now := time.Now()

	entry := HistoryEntry{
		State:        "fetch",
		Result:       Timeout,
		Duration:     1500 * time.Millisecond,
		Timestamp:    now,
		RetryCount:   2,
		ErrorMessage: "timeout after 1.5s",
		Metadata:     map[string]any{"records": 42},
	}

	m := entry.ToMap()

	assert.Equal(t, "fetch", m["state"])
	assert.Equal(t, "timeout", m["result"])
	assert.Equal(t, int64(1500), m["duration_ms"])
	assert.Equal(t, now, m["timestamp"])
	assert.Equal(t, 2, m["retry_count"])
	assert.Equal(t, "timeout after 1.5s", m["error_message"])
	assert.Equal(t, map[string]any{"records": 42}, m["metadata"])
}
