package machine

import (
	"sync"
	"time"
)

// dataBag is the run-scoped key/value store shared by every execution
// context of a single run, so handlers can pass data to each other. The
// engine never inspects its contents.
type dataBag struct {
	mu   sync.RWMutex
	data map[string]any
}

func newDataBag() *dataBag {
	return &dataBag{
		data: make(map[string]any),
	}
}

func (b *dataBag) get(key string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	val, ok := b.data[key]

	return val, ok
}

func (b *dataBag) set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[key] = value
}

func (b *dataBag) snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]any, len(b.data))
	for k, v := range b.data {
		out[k] = v
	}

	return out
}

// ExecutionContext is the runtime context passed to every handler
// invocation. A new context is created for each attempt; the underlying
// data bag is shared across all attempts of the same run.
type ExecutionContext struct {
	// State is the state currently being executed.
	State string
	// RetryCount is the zero-based retry index of this attempt.
	RetryCount int
	// StartTime is when this attempt began.
	StartTime time.Time
	// RunID identifies the run this attempt belongs to.
	RunID string

	bag *dataBag
}

func newExecutionContext(state string, retryCount int, runID string, bag *dataBag) *ExecutionContext {
	return &ExecutionContext{
		State:      state,
		RetryCount: retryCount,
		StartTime:  time.Now(),
		RunID:      runID,
		bag:        bag,
	}
}

// Get retrieves a value from the shared data bag.
func (ec *ExecutionContext) Get(key string) (any, bool) {
	return ec.bag.get(key)
}

// Set stores a value in the shared data bag.
func (ec *ExecutionContext) Set(key string, value any) {
	ec.bag.set(key, value)
}

// GetString retrieves a string value from the shared data bag.
func (ec *ExecutionContext) GetString(key string) (string, bool) {
	val, ok := ec.Get(key)
	if !ok {
		return "", false
	}

	str, ok := val.(string)

	return str, ok
}

// GetBool retrieves a boolean value from the shared data bag.
func (ec *ExecutionContext) GetBool(key string) (bool, bool) {
	val, ok := ec.Get(key)
	if !ok {
		return false, false
	}

	b, ok := val.(bool)

	return b, ok
}

// GetInt retrieves an integer value from the shared data bag.
func (ec *ExecutionContext) GetInt(key string) (int, bool) {
	val, ok := ec.Get(key)
	if !ok {
		return 0, false
	}

	i, ok := val.(int)

	return i, ok
}

// Elapsed returns how long this attempt has been running.
func (ec *ExecutionContext) Elapsed() time.Duration {
	return time.Since(ec.StartTime)
}

// TimedOut reports whether the attempt has exceeded the given timeout.
// A zero timeout never times out.
func (ec *ExecutionContext) TimedOut(timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}

	return ec.Elapsed() >= timeout
}
