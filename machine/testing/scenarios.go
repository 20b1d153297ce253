package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/statorhq/stator/machine"
)

// Scenario describes a full run and the properties expected of it.
type Scenario struct {
	Name          string
	Definition    machine.Definition
	EngineOptions []machine.Option
	WantErr       error
	Matchers      []Matcher
}

// RunScenario executes the scenario and checks every matcher against the
// finished engine.
func RunScenario(t *testing.T, scenario Scenario) {
	t.Helper()

	engine := NewTestEngine(t, scenario.Definition, scenario.EngineOptions...)

	err := engine.Run(t.Context())
	if scenario.WantErr != nil {
		require.ErrorIs(t, err, scenario.WantErr)
	} else {
		require.NoError(t, err)
	}

	for _, matcher := range scenario.Matchers {
		require.NoError(t, matcher.Match(engine))
	}
}
