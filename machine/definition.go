package machine

// Definition is the read-only configuration a caller supplies: the closed
// state set, per-state metadata, the ordered transition list, the initial
// state, and exactly one handler per state. The engine never mutates it
// after validation.
type Definition struct {
	// Name identifies the machine in logs, metrics, and spans.
	Name string
	// States enumerates every valid state.
	States []string
	// Metadata maps every state to its configuration.
	Metadata map[string]Metadata
	// Transitions are evaluated in declaration order per source state.
	Transitions []Transition
	// InitialState is where each run starts.
	InitialState string
	// Handlers maps every state to the function that executes it.
	Handlers map[string]Handler
}

// validate checks structural integrity. Missing handlers are configuration
// errors here rather than first-use runtime errors.
func (d Definition) validate() error {
	if len(d.States) == 0 {
		return WrapConfigError("", ErrStateRequired)
	}

	if d.InitialState == "" {
		return WrapConfigError("", ErrInitialStateRequired)
	}

	declared := make(map[string]bool, len(d.States))

	for _, state := range d.States {
		if declared[state] {
			return WrapConfigError(state, ErrDuplicateState)
		}

		declared[state] = true

		md, ok := d.Metadata[state]
		if !ok {
			return WrapConfigError(state, ErrMetadataMissing)
		}

		err := md.validate()
		if err != nil {
			return WrapConfigError(state, err)
		}

		if d.Handlers[state] == nil {
			return WrapConfigError(state, ErrHandlerMissing)
		}

		if md.Failover != "" && !contains(d.States, md.Failover) {
			return WrapConfigError(state, ErrFailoverStateUnknown)
		}
	}

	if !declared[d.InitialState] {
		return WrapConfigError(d.InitialState, ErrInitialStateUnknown)
	}

	for _, t := range d.Transitions {
		if !declared[t.From] {
			return WrapConfigError(t.From, ErrTransitionStateUnknown)
		}

		if !declared[t.To] {
			return WrapConfigError(t.To, ErrTransitionStateUnknown)
		}
	}

	return nil
}

func contains(states []string, state string) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}

	return false
}
