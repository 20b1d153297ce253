package machine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
)

const (
	// defaultMaxStatesPerRun caps the number of iterations per Run call to
	// guarantee termination in the presence of transition cycles.
	defaultMaxStatesPerRun = 100

	// defaultRetryPause is the cooperative pause between consecutive Retry
	// results from a handler, to avoid a busy loop.
	defaultRetryPause = 100 * time.Millisecond
)

// Engine executes a state machine definition: it repeatedly runs the
// current state's handler, applies the retry/timeout/failover policy from
// the state's metadata, selects the next state via the first satisfied
// transition, and records a bounded execution history. The engine is
// single-threaded; callers driving it from multiple goroutines must add
// their own synchronization.
type Engine struct {
	def           Definition
	transitionMap map[string][]Transition
	current       string
	retryCounts   map[string]int
	history       *historyBuffer
	bag           *dataBag
	runID         string
	initialized   bool
	dog           watchdog
	logger        Logger
	maxStates     int
	retryPause    time.Duration
	historyCap    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for state machine execution.
func WithLogger(logger Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxStatesPerRun overrides the per-run iteration cap.
func WithMaxStatesPerRun(n int) Option {
	return func(e *Engine) {
		e.maxStates = n
	}
}

// WithHistoryCapacity overrides the bounded history buffer capacity.
func WithHistoryCapacity(n int) Option {
	return func(e *Engine) {
		e.historyCap = n
	}
}

// WithRetryPause overrides the cooperative pause between Retry results.
func WithRetryPause(d time.Duration) Option {
	return func(e *Engine) {
		e.retryPause = d
	}
}

// New creates an engine for the given definition. The definition is not
// validated until Initialize (or the first Run).
func New(def Definition, opts ...Option) *Engine {
	e := &Engine{
		def:         def,
		retryCounts: make(map[string]int),
		logger:      NewDefaultLogger(),
		maxStates:   defaultMaxStatesPerRun,
		retryPause:  defaultRetryPause,
		historyCap:  defaultHistoryCapacity,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.history = newHistoryBuffer(e.historyCap)
	e.bag = newDataBag()

	return e
}

// Initialize builds the transition map and validates the definition. It is
// idempotent: a second call after a successful first is a no-op. A failed
// validation leaves the engine un-initialized so a later call can succeed.
func (e *Engine) Initialize() error {
	if e.initialized {
		return nil
	}

	transitionMap := make(map[string][]Transition)
	for _, t := range e.def.Transitions {
		transitionMap[t.From] = append(transitionMap[t.From], t)
	}

	err := e.def.validate()
	if err != nil {
		return err
	}

	e.transitionMap = transitionMap
	e.current = e.def.InitialState
	e.initialized = true

	slog.Info("State machine initialized",
		"machine", sanitizeMachine(e.def.Name),
		"states", len(e.def.States),
		"transitions", len(e.def.Transitions),
		"initial_state", e.current,
	)

	return nil
}

// Run executes the machine from the current state until no transition
// applies, the iteration cap is reached, or the watchdog expires. Retry
// counters are cleared at the start of every run. Context cancellation is
// honored between iterations and during retry pauses, never mid-handler.
func (e *Engine) Run(ctx context.Context) (err error) {
	if !e.initialized {
		initErr := e.Initialize()
		if initErr != nil {
			return initErr
		}
	}

	e.runID = uuid.NewString()
	e.bag = newDataBag()
	clear(e.retryCounts)

	ctx, span := startRunSpan(ctx, e.def.Name, e.runID, e.current)
	start := time.Now()
	outcome := outcomeCompleted

	defer func() {
		if err != nil {
			outcome = outcomeError

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, outcome)
		}

		runDuration.WithLabelValues(sanitizeMachine(e.def.Name), outcome).Observe(time.Since(start).Seconds())
		span.End()
	}()

	steps := 0

	for steps < e.maxStates {
		if ctx.Err() != nil {
			return fmt.Errorf("run aborted: %w", ctx.Err())
		}

		werr := e.checkWatchdog(ctx)
		if werr != nil {
			watchdogExpirationsTotal.WithLabelValues(sanitizeMachine(e.def.Name)).Inc()

			return werr
		}

		prev := e.current
		e.executeState(ctx, e.current)

		// A failover jump consumes one iteration; ordinary transition
		// selection is skipped for this round.
		if e.current != prev {
			steps++

			continue
		}

		next, ok := e.nextState(ctx, e.current)
		if !ok {
			slog.InfoContext(ctx, "No further transitions, run complete",
				"machine", sanitizeMachine(e.def.Name),
				"state", e.current,
			)

			return nil
		}

		e.logger.TransitionExecuted(ctx, e.current, next)
		transitionsTotal.WithLabelValues(sanitizeMachine(e.def.Name), e.current, next).Inc()

		e.current = next
		steps++
	}

	// Reaching the cap is a safety-limit condition, not a failure: callers
	// distinguish it by inspecting history and current state.
	outcome = outcomeSafetyLimit

	slog.ErrorContext(ctx, "Safety limit reached, stopping",
		"machine", sanitizeMachine(e.def.Name),
		"max_states", e.maxStates,
	)

	return nil
}

// executeState runs one state through the full attempt procedure: the
// inner Retry loop bounded by the state's timeout, the history record, and
// the retry/failover disposition. Retries are an explicit loop over
// attempts rather than recursion.
func (e *Engine) executeState(ctx context.Context, state string) Result {
	md := e.def.Metadata[state]
	handler := e.def.Handlers[state]
	maxAttempts := md.MaxRetries + 1

	for {
		retryCount := e.retryCounts[state]
		e.logger.StateEntered(ctx, state, retryCount+1, maxAttempts)

		ec := newExecutionContext(state, retryCount, e.runID, e.bag)
		attemptCtx, span := startAttemptSpan(ctx, e.def.Name, e.runID, state, retryCount)

		result := Failure
		errMsg := ""
		handlerErred := false

		for !ec.TimedOut(md.Timeout) {
			res, herr := handler(attemptCtx, ec)
			if herr != nil {
				result = Failure
				errMsg = herr.Error()
				handlerErred = true

				break
			}

			result = res
			if result != Retry {
				break
			}

			if !pause(attemptCtx, e.retryPause) {
				break
			}
		}

		// The timeout overrides whatever the handler last returned, unless
		// the attempt already ended in a handler error.
		if !handlerErred && ec.TimedOut(md.Timeout) {
			result = Timeout
			errMsg = fmt.Sprintf("timeout after %s", md.Timeout)
		}

		duration := ec.Elapsed()

		e.history.append(HistoryEntry{
			State:        state,
			Result:       result,
			Duration:     duration,
			Timestamp:    time.Now(),
			RetryCount:   retryCount,
			ErrorMessage: errMsg,
			Metadata:     e.bag.snapshot(),
		})

		if errMsg != "" {
			span.SetStatus(codes.Error, errMsg)
		} else {
			span.SetStatus(codes.Ok, string(result))
		}

		span.End()

		e.logger.StateExited(ctx, state, result, duration, errMsg)

		attemptsTotal.WithLabelValues(sanitizeMachine(e.def.Name), state, string(result)).Inc()
		attemptDuration.WithLabelValues(sanitizeMachine(e.def.Name), state).Observe(duration.Seconds())

		switch result {
		case Success:
			e.retryCounts[state] = 0

			return result

		case Failure, Retry, Timeout:
			if retryCount < md.MaxRetries {
				e.retryCounts[state] = retryCount + 1

				if ctx.Err() != nil {
					return result
				}

				continue
			}

			if md.Failover != "" {
				e.logger.FailoverExecuted(ctx, state, md.Failover, maxAttempts)
				failoversTotal.WithLabelValues(sanitizeMachine(e.def.Name), state, md.Failover).Inc()

				// Visible side effect: the outer loop sees the state change
				// and skips ordinary transition selection this round.
				e.current = md.Failover
				e.retryCounts[state] = 0
			} else {
				slog.ErrorContext(ctx, "State failed with no failover defined",
					"machine", sanitizeMachine(e.def.Name),
					"state", state,
				)
			}

			return result

		default:
			// Skip passes through without resetting the retry counter.
			return result
		}
	}
}

// nextState scans the current state's transitions in declaration order and
// returns the target of the first whose guard passes.
func (e *Engine) nextState(ctx context.Context, state string) (string, bool) {
	for _, t := range e.transitionMap[state] {
		if t.allowed(ctx) {
			return t.To, true
		}
	}

	return "", false
}

// Reset returns the machine to its initial state and clears all retry
// counters, regardless of prior run outcome.
func (e *Engine) Reset() {
	e.current = e.def.InitialState
	clear(e.retryCounts)

	slog.Info("State machine reset",
		"machine", sanitizeMachine(e.def.Name),
		"state", e.current,
	)
}

// CurrentState returns the state the machine is currently in.
func (e *Engine) CurrentState() string {
	return e.current
}

// History returns execution history, oldest first. A positive limit
// returns only the last limit entries.
func (e *Engine) History(limit int) []HistoryEntry {
	return e.history.tail(limit)
}

// pause sleeps for d, returning false if the context is canceled first.
func pause(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
