package machine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger counts watchdog warnings and ignores everything else.
type recordingLogger struct {
	warnings int
}

func (l *recordingLogger) StateEntered(context.Context, string, int, int) {}
func (l *recordingLogger) StateExited(context.Context, string, Result, time.Duration, string) {
}
func (l *recordingLogger) TransitionExecuted(context.Context, string, string)    {}
func (l *recordingLogger) FailoverExecuted(context.Context, string, string, int) {}

func (l *recordingLogger) WatchdogWarning(context.Context, time.Duration, time.Duration) {
	l.warnings++
}

func sleeper(d time.Duration) Handler {
	return func(_ context.Context, _ *ExecutionContext) (Result, error) {
		time.Sleep(d)

		return Success, nil
	}
}

func TestWatchdogDisabledByDefault(t *testing.T) {
	t.Parallel()

	def := linearDefinition(map[string]Handler{
		"a": sleeper(30 * time.Millisecond),
		"b": sleeper(30 * time.Millisecond),
		"c": succeed,
	})

	engine := New(def)

	err := engine.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "c", engine.CurrentState())
}

func TestWatchdogExpiresRun(t *testing.T) {
	t.Parallel()

	def := linearDefinition(map[string]Handler{
		"a": sleeper(80 * time.Millisecond),
		"b": succeed,
		"c": succeed,
	})

	engine := New(def)
	engine.EnableWatchdog(50 * time.Millisecond)

	err := engine.Run(t.Context())
	require.ErrorIs(t, err, ErrWatchdogExpired)

	var wdErr *WatchdogError

	require.ErrorAs(t, err, &wdErr)
	assert.Equal(t, 50*time.Millisecond, wdErr.Threshold)
	assert.GreaterOrEqual(t, wdErr.Idle, wdErr.Threshold)

	// Only the first state ran before the abort.
	history := engine.History(0)
	require.Len(t, history, 1)
	assert.Equal(t, "a", history[0].State)
}

func TestWatchdogActivitySuppressesAbort(t *testing.T) {
	t.Parallel()

	var engine *Engine

	working := func(_ context.Context, _ *ExecutionContext) (Result, error) {
		time.Sleep(60 * time.Millisecond)
		engine.RecordActivity()

		return Success, nil
	}

	def := linearDefinition(map[string]Handler{
		"a": working,
		"b": working,
		"c": working,
	})

	engine = New(def)
	engine.EnableWatchdog(100 * time.Millisecond)

	err := engine.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "c", engine.CurrentState())
}

func TestWatchdogWarnsOncePerIdleEpisode(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}

	def := linearDefinition(map[string]Handler{
		"a": sleeper(250 * time.Millisecond),
		"b": sleeper(10 * time.Millisecond),
		"c": succeed,
	})

	engine := New(def, WithLogger(logger))
	engine.EnableWatchdog(300 * time.Millisecond)

	err := engine.Run(t.Context())
	require.NoError(t, err)

	// Idle crossed 80% of the threshold before both the b and c
	// iterations, but the warning fires once per idle episode.
	assert.Equal(t, 1, logger.warnings)
}

func TestRecordActivityResetsWarningFlag(t *testing.T) {
	t.Parallel()

	engine := New(linearDefinition(map[string]Handler{
		"a": succeed,
		"b": succeed,
		"c": succeed,
	}))

	engine.EnableWatchdog(time.Second)
	engine.dog.warned.Store(true)

	engine.RecordActivity()

	assert.False(t, engine.dog.warned.Load())
}
