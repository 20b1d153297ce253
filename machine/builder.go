package machine

// Builder provides a fluent API for constructing state machines without
// assembling a Definition by hand. The first configuration error is
// remembered and surfaced by Build.
type Builder struct {
	def        Definition
	engineOpts []Option
	err        error
}

// NewBuilder creates a new state machine builder.
func NewBuilder(name string) *Builder {
	return &Builder{
		def: Definition{
			Name:     name,
			Metadata: make(map[string]Metadata),
			Handlers: make(map[string]Handler),
		},
	}
}

// WithInitialState sets the initial state.
func (b *Builder) WithInitialState(state string) *Builder {
	b.def.InitialState = state

	return b
}

// WithEngineOptions adds engine options applied at Build.
func (b *Builder) WithEngineOptions(opts ...Option) *Builder {
	b.engineOpts = append(b.engineOpts, opts...)

	return b
}

// AddState declares a state with metadata built from the given options.
func (b *Builder) AddState(name string, opts ...MetadataOption) *Builder {
	md, err := NewMetadata(name, opts...)
	if err != nil {
		if b.err == nil {
			b.err = WrapConfigError(name, err)
		}

		return b
	}

	b.def.States = append(b.def.States, name)
	b.def.Metadata[name] = md

	return b
}

// Handle binds a handler to a state.
func (b *Builder) Handle(state string, handler Handler) *Builder {
	b.def.Handlers[state] = handler

	return b
}

// AddTransition adds an unconditional transition.
func (b *Builder) AddTransition(from, to string) *Builder {
	b.def.Transitions = append(b.def.Transitions, NewTransition(from, to))

	return b
}

// AddGuardedTransition adds a transition gated by the given guard.
func (b *Builder) AddGuardedTransition(from, to string, guard Guard) *Builder {
	b.def.Transitions = append(b.def.Transitions, NewGuardedTransition(from, to, guard))

	return b
}

// Build constructs and initializes the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.err != nil {
		return nil, b.err
	}

	engine := New(b.def, b.engineOpts...)

	err := engine.Initialize()
	if err != nil {
		return nil, err
	}

	return engine, nil
}
