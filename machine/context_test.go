package machine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExecutionContextTimedOut(t *testing.T) {
	t.Parallel()

	ec := newExecutionContext("a", 0, "run-1", newDataBag())

	// Zero timeout means unbounded.
	assert.False(t, ec.TimedOut(0))

	ec.StartTime = time.Now().Add(-time.Second)

	assert.True(t, ec.TimedOut(500*time.Millisecond))
	assert.False(t, ec.TimedOut(time.Minute))
	assert.GreaterOrEqual(t, ec.Elapsed(), time.Second)
}

func TestExecutionContextTypedGetters(t *testing.T) {
	t.Parallel()

	ec := newExecutionContext("a", 0, "run-1", newDataBag())

	ec.Set("name", "fetch")
	ec.Set("done", true)
	ec.Set("count", 7)

	name, ok := ec.GetString("name")
	assert.True(t, ok)
	assert.Equal(t, "fetch", name)

	done, ok := ec.GetBool("done")
	assert.True(t, ok)
	assert.True(t, done)

	count, ok := ec.GetInt("count")
	assert.True(t, ok)
	assert.Equal(t, 7, count)

	_, ok = ec.GetString("missing")
	assert.False(t, ok)

	// Wrong type reads fail the type assertion, not the lookup.
	_, ok = ec.GetInt("name")
	assert.False(t, ok)
}

func TestExecutionContextsShareBag(t *testing.T) {
	t.Parallel()

	bag := newDataBag()

	first := newExecutionContext("a", 0, "run-1", bag)
	second := newExecutionContext("a", 1, "run-1", bag)

	first.Set("progress", 40)

	progress, ok := second.GetInt("progress")
	assert.True(t, ok)
	assert.Equal(t, 40, progress)
}
