package machine

import (
	"context"
	"log/slog"
	"time"
)

// Logger provides logging hooks for state machine execution.
type Logger interface {
	StateEntered(ctx context.Context, state string, attempt, maxAttempts int)
	StateExited(ctx context.Context, state string, result Result, duration time.Duration, errMsg string)
	TransitionExecuted(ctx context.Context, from, to string)
	FailoverExecuted(ctx context.Context, from, to string, attempts int)
	WatchdogWarning(ctx context.Context, idle, remaining time.Duration)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger backed by the process-wide slog default.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		logger: slog.Default(),
	}
}

// NewSlogLogger creates a logger backed by the given slog logger.
func NewSlogLogger(logger *slog.Logger) *DefaultLogger {
	return &DefaultLogger{
		logger: logger,
	}
}

func (l *DefaultLogger) StateEntered(ctx context.Context, state string, attempt, maxAttempts int) {
	l.logger.InfoContext(ctx, "Executing state",
		"state", state,
		"attempt", attempt,
		"max_attempts", maxAttempts,
	)
}

func (l *DefaultLogger) StateExited(
	ctx context.Context,
	state string,
	result Result,
	duration time.Duration,
	errMsg string,
) {
	fields := []any{
		"state", state,
		"result", string(result),
		"duration_ms", duration.Milliseconds(),
	}

	if errMsg != "" {
		l.logger.ErrorContext(ctx, "State exited with error", append(fields, "error", errMsg)...)
	} else {
		l.logger.InfoContext(ctx, "State exited", fields...)
	}
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, from, to string) {
	l.logger.InfoContext(ctx, "Transition executed",
		"from", from,
		"to", to,
	)
}

func (l *DefaultLogger) FailoverExecuted(ctx context.Context, from, to string, attempts int) {
	l.logger.WarnContext(ctx, "Failover executed",
		"from", from,
		"to", to,
		"attempts", attempts,
	)
}

func (l *DefaultLogger) WatchdogWarning(ctx context.Context, idle, remaining time.Duration) {
	l.logger.WarnContext(ctx, "Watchdog idle warning",
		"idle_s", idle.Seconds(),
		"remaining_s", remaining.Seconds(),
	)
}
