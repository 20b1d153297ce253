package machine

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the declarative YAML form of a machine definition. Handlers
// and guards cannot be expressed in YAML; they are attached when the
// config is turned into a Definition.
type Config struct {
	Name         string             `json:"name"         yaml:"name"`
	InitialState string             `json:"initialState" yaml:"initialState"`
	States       []StateConfig      `json:"states"       yaml:"states"`
	Transitions  []TransitionConfig `json:"transitions"  yaml:"transitions"`
}

// StateConfig declares one state and its policy.
type StateConfig struct {
	Name        string `json:"name"        yaml:"name"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description" yaml:"description"`
	// MaxRetries is the number of additional attempts beyond the first.
	// Unset means the default of 3.
	MaxRetries *int `json:"maxRetries" yaml:"maxRetries"`
	// Timeout is a Go duration string, e.g. "30s". Empty means unbounded.
	Timeout  string `json:"timeout"  yaml:"timeout"`
	Failover string `json:"failover" yaml:"failover"`
}

// TransitionConfig declares one unconditional transition. Guarded
// transitions must be added programmatically.
type TransitionConfig struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to"   yaml:"to"`
}

// LoadConfig loads a machine configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes loads a machine configuration from YAML bytes.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigFromFS loads a configuration from an embedded filesystem.
// This is a convenience function for loading from embed.FS.
func LoadConfigFromFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS: %w", err)
	}

	return LoadConfigFromBytes(data)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Name == "" {
		return WrapConfigError("", ErrConfigNameRequired)
	}

	if c.InitialState == "" {
		return WrapConfigError("", ErrInitialStateRequired)
	}

	if len(c.States) == 0 {
		return WrapConfigError("", ErrStateRequired)
	}

	stateNames := make(map[string]bool, len(c.States))

	for _, state := range c.States {
		if state.Name == "" {
			return WrapConfigError("", ErrStateNameRequired)
		}

		if stateNames[state.Name] {
			return WrapConfigError(state.Name, ErrDuplicateState)
		}

		stateNames[state.Name] = true

		if state.MaxRetries != nil && *state.MaxRetries < 0 {
			return WrapConfigError(state.Name, ErrInvalidMaxRetries)
		}

		if state.Timeout != "" {
			timeout, err := time.ParseDuration(state.Timeout)
			if err != nil {
				return WrapConfigError(state.Name, fmt.Errorf("%w: %w", ErrInvalidTimeout, err))
			}

			if timeout <= 0 {
				return WrapConfigError(state.Name, ErrInvalidTimeout)
			}
		}
	}

	for _, state := range c.States {
		if state.Failover != "" && !stateNames[state.Failover] {
			return WrapConfigError(state.Name, ErrFailoverStateUnknown)
		}
	}

	if !stateNames[c.InitialState] {
		return WrapConfigError(c.InitialState, ErrInitialStateUnknown)
	}

	for i, transition := range c.Transitions {
		if transition.From == "" {
			return WrapConfigError(fmt.Sprintf("transition %d", i), ErrTransitionFromRequired)
		}

		if transition.To == "" {
			return WrapConfigError(fmt.Sprintf("transition %d", i), ErrTransitionToRequired)
		}

		if !stateNames[transition.From] {
			return WrapConfigError(transition.From, ErrTransitionStateUnknown)
		}

		if !stateNames[transition.To] {
			return WrapConfigError(transition.To, ErrTransitionStateUnknown)
		}
	}

	return nil
}

// Definition converts the config into an executable Definition, binding
// the given handlers. The handler map must cover every declared state;
// that is checked by Engine.Initialize, not here.
func (c *Config) Definition(handlers map[string]Handler) (Definition, error) {
	def := Definition{
		Name:         c.Name,
		States:       make([]string, 0, len(c.States)),
		Metadata:     make(map[string]Metadata, len(c.States)),
		Transitions:  make([]Transition, 0, len(c.Transitions)),
		InitialState: c.InitialState,
		Handlers:     handlers,
	}

	for _, state := range c.States {
		opts := []MetadataOption{
			WithDescription(state.Description),
			WithFailover(state.Failover),
		}

		if state.MaxRetries != nil {
			opts = append(opts, WithMaxRetries(*state.MaxRetries))
		}

		if state.Timeout != "" {
			timeout, err := time.ParseDuration(state.Timeout)
			if err != nil {
				return Definition{}, WrapConfigError(state.Name, fmt.Errorf("%w: %w", ErrInvalidTimeout, err))
			}

			opts = append(opts, WithTimeout(timeout))
		}

		displayName := state.DisplayName
		if displayName == "" {
			displayName = state.Name
		}

		md, err := NewMetadata(displayName, opts...)
		if err != nil {
			return Definition{}, WrapConfigError(state.Name, err)
		}

		def.States = append(def.States, state.Name)
		def.Metadata[state.Name] = md
	}

	for _, transition := range c.Transitions {
		def.Transitions = append(def.Transitions, NewTransition(transition.From, transition.To))
	}

	return def, nil
}
