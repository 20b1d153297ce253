package machine

import (
	"context"
	"time"

	"go.uber.org/atomic"
)

// watchdogWarnFraction is the share of the idle threshold at which the
// single per-episode warning is emitted.
const watchdogWarnFraction = 0.8

// watchdog is an idle-time guard: if no activity is recorded within the
// threshold, the next run-loop iteration aborts. Timestamps are atomic so
// handlers may record activity without extra synchronization.
type watchdog struct {
	threshold    time.Duration
	lastActivity atomic.Time
	warned       atomic.Bool
}

func (w *watchdog) enabled() bool {
	return w.threshold > 0
}

func (w *watchdog) recordActivity() {
	w.lastActivity.Store(time.Now())
	w.warned.Store(false)
}

// EnableWatchdog enables the idle watchdog with the given threshold. If
// RecordActivity is not called within the threshold, Run aborts with a
// WatchdogError.
func (e *Engine) EnableWatchdog(threshold time.Duration) {
	e.dog.threshold = threshold
	e.dog.recordActivity()
}

// RecordActivity resets the watchdog idle clock. Handlers call this to
// signal liveness; the watchdog does not infer activity from transitions.
func (e *Engine) RecordActivity() {
	e.dog.recordActivity()
}

// checkWatchdog returns a fatal WatchdogError once the idle threshold is
// exceeded, and emits at most one warning per idle episode.
func (e *Engine) checkWatchdog(ctx context.Context) error {
	if !e.dog.enabled() {
		return nil
	}

	idle := time.Since(e.dog.lastActivity.Load())

	if idle >= e.dog.threshold {
		return &WatchdogError{
			Idle:      idle,
			Threshold: e.dog.threshold,
		}
	}

	warnAt := time.Duration(float64(e.dog.threshold) * watchdogWarnFraction)
	if idle >= warnAt && e.dog.warned.CompareAndSwap(false, true) {
		e.logger.WatchdogWarning(ctx, idle, e.dog.threshold-idle)
	}

	return nil
}
