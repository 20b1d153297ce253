package machine

import (
	"errors"
	"fmt"
	"time"
)

// Predefined error types.
var (
	// ErrMetadataMissing indicates that a declared state has no metadata.
	ErrMetadataMissing = errors.New("state has no metadata defined")
	// ErrHandlerMissing indicates that a declared state has no handler bound.
	ErrHandlerMissing = errors.New("state has no handler bound")
	// ErrInitialStateUnknown indicates that the initial state is not in the declared set.
	ErrInitialStateUnknown = errors.New("initial state not in declared state set")
	// ErrTransitionStateUnknown indicates that a transition references an undeclared state.
	ErrTransitionStateUnknown = errors.New("transition references undeclared state")
	// ErrFailoverStateUnknown indicates that a failover target is not in the declared set.
	ErrFailoverStateUnknown = errors.New("failover state not in declared state set")
	// ErrInitialStateRequired indicates that no initial state was configured.
	ErrInitialStateRequired = errors.New("initial state is required")
	// ErrStateRequired indicates that the declared state set is empty.
	ErrStateRequired = errors.New("at least one state is required")
	// ErrDuplicateState indicates that a state was declared twice.
	ErrDuplicateState = errors.New("duplicate state")
	// ErrInvalidMaxRetries indicates a negative retry limit.
	ErrInvalidMaxRetries = errors.New("max retries must be >= 0")
	// ErrInvalidTimeout indicates a negative timeout.
	ErrInvalidTimeout = errors.New("timeout must be positive or zero for unbounded")
	// ErrWatchdogExpired indicates that the idle watchdog threshold was exceeded.
	ErrWatchdogExpired = errors.New("watchdog idle threshold exceeded")

	// ErrConfigNameRequired indicates that a configuration name is required.
	ErrConfigNameRequired = errors.New("config name is required")
	// ErrStateNameRequired indicates that a state name is required.
	ErrStateNameRequired = errors.New("state name is required")
	// ErrTransitionFromRequired indicates that a transition from state is required.
	ErrTransitionFromRequired = errors.New("transition from state is required")
	// ErrTransitionToRequired indicates that a transition to state is required.
	ErrTransitionToRequired = errors.New("transition to state is required")
)

// ConfigError wraps a configuration validation failure with the state or
// element that caused it. It is fatal: the engine stays un-initialized.
type ConfigError struct {
	State string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}

	return fmt.Sprintf("config: state %s: %v", e.State, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// WrapConfigError wraps an error with configuration context.
func WrapConfigError(state string, err error) error {
	if err == nil {
		return nil
	}

	return &ConfigError{
		State: state,
		Err:   err,
	}
}

// WatchdogError reports that a run was aborted because no activity was
// recorded within the configured threshold.
type WatchdogError struct {
	Idle      time.Duration
	Threshold time.Duration
}

func (e *WatchdogError) Error() string {
	return fmt.Sprintf("watchdog: no activity for %s (threshold: %s)", e.Idle, e.Threshold)
}

func (e *WatchdogError) Unwrap() error {
	return ErrWatchdogExpired
}
