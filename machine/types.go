// Package machine provides a declarative, single-threaded state machine
// engine with per-state retry, timeout, and failover policy.
package machine

import "context"

// Result is the outcome of a single handler invocation. It drives the
// engine's retry and failover decisions.
type Result string

// Handler results.
const (
	// Success means the state completed; the engine proceeds to
	// transition selection.
	Success Result = "success"
	// Failure means the state failed; the engine may retry or fail over.
	Failure Result = "failure"
	// Retry means the handler is still working and should be invoked
	// again after a short pause, within the same attempt.
	Retry Result = "retry"
	// Skip means the state was skipped; treated like Success for
	// transition selection but does not reset the retry counter.
	Skip Result = "skip"
	// Timeout means the attempt exceeded the state's configured timeout.
	// Synthesized by the engine; handlers should not return it directly.
	Timeout Result = "timeout"
)

// Handler executes one state. It receives the Go context and the per-attempt
// execution context, and returns a Result. A non-nil error is recorded as a
// Failure with the error message attached to the history entry; it never
// aborts the run loop.
type Handler func(ctx context.Context, ec *ExecutionContext) (Result, error)

// Guard is a predicate that decides whether a transition may be taken.
// An error from Allow is treated as false and never propagated.
type Guard interface {
	Allow(ctx context.Context) (bool, error)
}

// GuardFunc adapts a plain function to the Guard interface.
type GuardFunc func(ctx context.Context) (bool, error)

// Allow calls the underlying function.
func (f GuardFunc) Allow(ctx context.Context) (bool, error) {
	return f(ctx)
}
