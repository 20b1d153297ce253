package testing

import (
	"fmt"

	"github.com/statorhq/stator/machine"
)

// Matcher checks one property of a finished run.
type Matcher interface {
	Match(engine *machine.Engine) error
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(engine *machine.Engine) error

func (f MatcherFunc) Match(engine *machine.Engine) error {
	return f(engine)
}

// StateVisited asserts that at least one history entry exists for the state.
func StateVisited(state string) Matcher {
	return MatcherFunc(func(engine *machine.Engine) error {
		for _, entry := range engine.History(0) {
			if entry.State == state {
				return nil
			}
		}

		return fmt.Errorf("state %q was never visited", state)
	})
}

// FinishedIn asserts the state the engine ended the run in.
func FinishedIn(state string) Matcher {
	return MatcherFunc(func(engine *machine.Engine) error {
		if current := engine.CurrentState(); current != state {
			return fmt.Errorf("finished in %q, expected %q", current, state)
		}

		return nil
	})
}

// ResultSequence asserts the exact sequence of attempt results across the
// whole run history.
func ResultSequence(results ...machine.Result) Matcher {
	return MatcherFunc(func(engine *machine.Engine) error {
		history := engine.History(0)
		if len(history) != len(results) {
			return fmt.Errorf("recorded %d attempts, expected %d", len(history), len(results))
		}

		for i, entry := range history {
			if entry.Result != results[i] {
				return fmt.Errorf("attempt %d produced %s, expected %s", i, entry.Result, results[i])
			}
		}

		return nil
	})
}

// FailoverTaken asserts that the from state exhausted its retries and the
// run subsequently visited the to state.
func FailoverTaken(from, to string) Matcher {
	return MatcherFunc(func(engine *machine.Engine) error {
		history := engine.History(0)

		for i, entry := range history {
			if entry.State != from || entry.Result == machine.Success {
				continue
			}

			for _, later := range history[i+1:] {
				if later.State == to {
					return nil
				}
			}
		}

		return fmt.Errorf("no failover from %q to %q observed", from, to)
	})
}
