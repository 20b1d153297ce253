package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statorhq/stator/machine"
)

func TestScriptRepeatsLastResult(t *testing.T) {
	t.Parallel()

	handler := Script(machine.Failure, machine.Success)

	first, err := handler(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, machine.Failure, first)

	second, err := handler(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, machine.Success, second)

	third, err := handler(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, machine.Success, third)
}

func TestFailTimes(t *testing.T) {
	t.Parallel()

	handler := FailTimes(2)

	for range 2 {
		result, err := handler(t.Context(), nil)
		require.NoError(t, err)
		assert.Equal(t, machine.Failure, result)
	}

	result, err := handler(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, machine.Success, result)
}

func TestRunScenarioLinear(t *testing.T) {
	t.Parallel()

	RunScenario(t, Scenario{
		Name:       "linear chain",
		Definition: LinearDefinition(AlwaysSucceed),
		Matchers: []Matcher{
			StateVisited("a"),
			StateVisited("b"),
			FinishedIn("c"),
			ResultSequence(machine.Success, machine.Success, machine.Success),
		},
	})
}

func TestRunScenarioFailover(t *testing.T) {
	t.Parallel()

	RunScenario(t, Scenario{
		Name:       "failover after exhausted retries",
		Definition: FailoverDefinition(1, AlwaysFail),
		Matchers: []Matcher{
			FailoverTaken("work", "fallback"),
			FinishedIn("fallback"),
		},
	})
}

func TestStaticGuard(t *testing.T) {
	t.Parallel()

	ok, err := StaticGuard(true).Allow(t.Context())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = StaticGuard(false).Allow(t.Context())
	require.NoError(t, err)
	assert.False(t, ok)
}
