// Package visualizer generates Mermaid diagrams from machine configurations.
package visualizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/statorhq/stator/machine"
)

// Visualizer errors.
var (
	ErrConfigNil      = errors.New("config cannot be nil")
	ErrNoInitialState = errors.New("config must have an initial state")
)

// GenerateMermaid converts a Config to a Mermaid state diagram.
func GenerateMermaid(config *machine.Config) (string, error) {
	return GenerateMermaidWithOptions(config, DefaultOptions())
}

// GenerateMermaidFromFile loads a config from a file and generates a Mermaid diagram.
func GenerateMermaidFromFile(path string) (string, error) {
	config, err := machine.LoadConfig(path)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	return GenerateMermaid(config)
}

// GenerateMermaidWithOptions generates a Mermaid diagram with custom options.
func GenerateMermaidWithOptions(config *machine.Config, opts Options) (string, error) {
	if config == nil {
		return "", ErrConfigNil
	}

	if config.InitialState == "" {
		return "", ErrNoInitialState
	}

	var sb strings.Builder

	sb.WriteString("```mermaid\n")
	sb.WriteString(fmt.Sprintf("stateDiagram-%s\n", opts.Direction))

	// Initial state marker
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", config.InitialState))

	highlightMap := make(map[string]bool)
	for _, state := range opts.HighlightPath {
		highlightMap[state] = true
	}

	// Terminal states have no outgoing transitions.
	terminal := make(map[string]bool, len(config.States))
	for _, state := range config.States {
		terminal[state.Name] = true
	}

	for _, transition := range config.Transitions {
		terminal[transition.From] = false
	}

	transitionMap := make(map[string][]machine.TransitionConfig)
	for _, transition := range config.Transitions {
		transitionMap[transition.From] = append(transitionMap[transition.From], transition)
	}

	for _, state := range config.States {
		if opts.ShowPolicy {
			if note := policyNote(state); note != "" {
				sb.WriteString(fmt.Sprintf("    %s: %s\\n[%s]\n", state.Name, state.Name, note))
			}
		}

		switch {
		case highlightMap[state.Name]:
			sb.WriteString(fmt.Sprintf("    class %s highlighted\n", state.Name))
		case terminal[state.Name]:
			sb.WriteString(fmt.Sprintf("    class %s terminalState\n", state.Name))
		}

		for _, transition := range transitionMap[state.Name] {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", state.Name, transition.To))
		}

		if opts.ShowFailovers && state.Failover != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s: failover\n", state.Name, state.Failover))
		}

		if terminal[state.Name] {
			sb.WriteString(fmt.Sprintf("    %s --> [*]\n", state.Name))
		}
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef terminalState fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")

	sb.WriteString("```\n")

	return sb.String(), nil
}

// policyNote summarizes a state's retry/timeout policy for the node label.
func policyNote(state machine.StateConfig) string {
	parts := []string{}

	if state.MaxRetries != nil {
		parts = append(parts, fmt.Sprintf("retries: %d", *state.MaxRetries))
	}

	if state.Timeout != "" {
		parts = append(parts, "timeout: "+state.Timeout)
	}

	return strings.Join(parts, ", ")
}
