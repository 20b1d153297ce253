package visualizer

import (
	"testing"

	"github.com/statorhq/stator/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *machine.Config {
	two := 2

	return &machine.Config{
		Name:         "pipeline",
		InitialState: "fetch",
		States: []machine.StateConfig{
			{Name: "fetch", MaxRetries: &two, Timeout: "30s", Failover: "save"},
			{Name: "process"},
			{Name: "save"},
		},
		Transitions: []machine.TransitionConfig{
			{From: "fetch", To: "process"},
			{From: "process", To: "save"},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	t.Parallel()

	diagram, err := GenerateMermaid(testConfig())
	require.NoError(t, err)

	assert.Contains(t, diagram, "stateDiagram-TD")
	assert.Contains(t, diagram, "[*] --> fetch")
	assert.Contains(t, diagram, "fetch --> process")
	assert.Contains(t, diagram, "process --> save")
	assert.Contains(t, diagram, "fetch --> save: failover")
	assert.Contains(t, diagram, "retries: 2, timeout: 30s")

	// save has no outgoing transitions, so it is terminal.
	assert.Contains(t, diagram, "save --> [*]")
	assert.NotContains(t, diagram, "fetch --> [*]")
}

func TestGenerateMermaidOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions().
		WithDirection("LR").
		WithShowPolicy(false).
		WithShowFailovers(false).
		WithHighlightPath([]string{"fetch"})

	diagram, err := GenerateMermaidWithOptions(testConfig(), opts)
	require.NoError(t, err)

	assert.Contains(t, diagram, "stateDiagram-LR")
	assert.Contains(t, diagram, "class fetch highlighted")
	assert.NotContains(t, diagram, "failover")
	assert.NotContains(t, diagram, "retries:")
}

func TestGenerateMermaidRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := GenerateMermaid(nil)
	require.ErrorIs(t, err, ErrConfigNil)

	_, err = GenerateMermaid(&machine.Config{Name: "m"})
	require.ErrorIs(t, err, ErrNoInitialState)
}
