package machine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric outcome constants.
const (
	outcomeCompleted   = "completed"
	outcomeSafetyLimit = "safety_limit"
	outcomeError       = "error"
)

// Metric definitions with appropriate labels.
var (
	// attemptsTotal tracks completed state attempts by machine, state, and result.
	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "machine_state_attempts_total",
		Help: "Total number of completed state attempts by machine, state, and result",
	}, []string{"machine", "state", "result"})

	// transitionsTotal tracks state transitions.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "machine_transitions_total",
		Help: "Total number of state transitions by machine, from_state, and to_state",
	}, []string{"machine", "from_state", "to_state"})

	// failoversTotal tracks failover jumps taken after retry exhaustion.
	failoversTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "machine_failovers_total",
		Help: "Total number of failover jumps by machine, from_state, and to_state",
	}, []string{"machine", "from_state", "to_state"})

	// attemptDuration tracks individual attempt execution time.
	attemptDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "machine_attempt_duration_seconds",
		Help:    "Duration of state attempts by machine and state",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"machine", "state"})

	// runDuration tracks end-to-end run time.
	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "machine_run_duration_seconds",
		Help:    "Duration of state machine runs by machine and outcome",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}, []string{"machine", "outcome"})

	// watchdogExpirationsTotal tracks runs aborted by the idle watchdog.
	watchdogExpirationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "machine_watchdog_expirations_total",
		Help: "Total number of runs aborted by the idle watchdog",
	}, []string{"machine"})
)

// sanitizeMachine keeps the machine label cardinality sane when no name
// was configured.
func sanitizeMachine(name string) string {
	if name == "" {
		return "unknown"
	}

	return name
}
