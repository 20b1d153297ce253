// Package testing provides testing utilities for state machine workflows.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/statorhq/stator/machine"
)

// AlwaysSucceed is a handler that returns Success on every invocation.
func AlwaysSucceed(_ context.Context, _ *machine.ExecutionContext) (machine.Result, error) {
	return machine.Success, nil
}

// AlwaysFail is a handler that returns Failure on every invocation.
func AlwaysFail(_ context.Context, _ *machine.ExecutionContext) (machine.Result, error) {
	return machine.Failure, nil
}

// Script returns a handler that replays the given results in order,
// repeating the last one once the script is exhausted.
func Script(results ...machine.Result) machine.Handler {
	i := 0

	return func(_ context.Context, _ *machine.ExecutionContext) (machine.Result, error) {
		idx := i
		if idx >= len(results) {
			idx = len(results) - 1
		}

		i++

		return results[idx], nil
	}
}

// FailTimes returns a handler that fails the first n invocations and
// succeeds afterwards.
func FailTimes(n int) machine.Handler {
	calls := 0

	return func(_ context.Context, _ *machine.ExecutionContext) (machine.Result, error) {
		calls++
		if calls <= n {
			return machine.Failure, nil
		}

		return machine.Success, nil
	}
}

// StaticGuard returns a guard with a fixed answer.
func StaticGuard(allow bool) machine.Guard {
	return machine.GuardFunc(func(_ context.Context) (bool, error) {
		return allow, nil
	})
}

// LinearDefinition builds an a -> b -> c chain where every state uses the
// given handler.
func LinearDefinition(handler machine.Handler) machine.Definition {
	return machine.Definition{
		Name:   "test-linear",
		States: []string{"a", "b", "c"},
		Metadata: map[string]machine.Metadata{
			"a": machine.MustMetadata("A"),
			"b": machine.MustMetadata("B"),
			"c": machine.MustMetadata("C"),
		},
		Transitions: []machine.Transition{
			machine.NewTransition("a", "b"),
			machine.NewTransition("b", "c"),
		},
		InitialState: "a",
		Handlers: map[string]machine.Handler{
			"a": handler,
			"b": handler,
			"c": handler,
		},
	}
}

// FailoverDefinition builds a machine whose single working state fails
// over to a fallback state after maxRetries is exhausted.
func FailoverDefinition(maxRetries int, working machine.Handler) machine.Definition {
	return machine.Definition{
		Name:   "test-failover",
		States: []string{"work", "fallback"},
		Metadata: map[string]machine.Metadata{
			"work": machine.MustMetadata("Work",
				machine.WithMaxRetries(maxRetries),
				machine.WithFailover("fallback"),
			),
			"fallback": machine.MustMetadata("Fallback"),
		},
		InitialState: "work",
		Handlers: map[string]machine.Handler{
			"work":     working,
			"fallback": AlwaysSucceed,
		},
	}
}

// NewTestEngine creates an initialized engine with a short retry pause so
// retry-heavy tests stay fast.
func NewTestEngine(t *testing.T, def machine.Definition, opts ...machine.Option) *machine.Engine {
	t.Helper()

	opts = append([]machine.Option{machine.WithRetryPause(time.Millisecond)}, opts...)

	engine := machine.New(def, opts...)

	err := engine.Initialize()
	if err != nil {
		t.Fatalf("failed to initialize test engine: %v", err)
	}

	return engine
}
