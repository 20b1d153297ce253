package machine

import "context"

// Transition is a directed edge between two states with an optional guard.
// Transitions are immutable once declared; when several share the same From
// state they are evaluated in declaration order and the first whose guard
// passes (or which has no guard) wins.
type Transition struct {
	From  string
	To    string
	Guard Guard
}

// NewTransition creates an unconditional transition.
func NewTransition(from, to string) Transition {
	return Transition{From: from, To: to}
}

// NewGuardedTransition creates a transition gated by the given guard.
func NewGuardedTransition(from, to string, guard Guard) Transition {
	return Transition{From: from, To: to, Guard: guard}
}

// allowed reports whether the transition may currently be taken. A nil
// guard always allows; a guard error counts as false.
func (t Transition) allowed(ctx context.Context) bool {
	if t.Guard == nil {
		return true
	}

	ok, err := t.Guard.Allow(ctx)
	if err != nil {
		return false
	}

	return ok
}
