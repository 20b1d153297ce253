// Package telemetry bootstraps OpenTelemetry tracing and log export for
// services embedding state machine workflows.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	defaultServiceName    = "stator"
	defaultServiceVersion = "1.0.0"
	defaultTimeout        = 5 * time.Second
)

var (
	tracerProvider *sdktrace.TracerProvider
	loggerProvider *sdklog.LoggerProvider
)

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Enabled        bool
	ExportLogs     bool
	Timeout        time.Duration
}

// LoadConfigFromEnv loads OpenTelemetry configuration from environment variables.
func LoadConfigFromEnv(runningEnv string) (*Config, error) {
	enabled := envBool("OTEL_ENABLED", false)
	exportLogs := envBool("OTEL_LOGS_ENABLED", false)

	// Default to the in-cluster collector endpoint when running in Kubernetes
	defaultEndpoint := ""
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		defaultEndpoint = "http://opentelemetry-collector.opentelemetry.svc.cluster.local:4318"
	}

	svcName := envString("OTEL_SERVICE_NAME", defaultServiceName)
	svcVersion := envString("OTEL_SERVICE_VERSION", defaultServiceVersion)
	endpoint := envString("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", defaultEndpoint)

	timeout, err := envDuration("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServiceName:    svcName,
		ServiceVersion: svcVersion,
		Environment:    runningEnv,
		Endpoint:       endpoint,
		Enabled:        enabled,
		ExportLogs:     exportLogs,
		Timeout:        timeout,
	}, nil
}

// Initialize sets up OpenTelemetry tracing with the given configuration.
func Initialize(ctx context.Context, config *Config) error {
	if !config.Enabled {
		slog.Info("OpenTelemetry tracing is disabled")

		return nil
	}

	if config.Endpoint == "" {
		slog.Warn("OpenTelemetry endpoint not configured, tracing will be disabled")

		return nil
	}

	// Create resource with service information
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	// Create OTLP trace exporter
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.Endpoint),
		otlptracehttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	// Create trace provider
	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	// Set the global trace provider
	otel.SetTracerProvider(tracerProvider)

	// Set the global propagator to support trace context propagation
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if config.ExportLogs {
		if err := initializeLogs(ctx, config, res); err != nil {
			return err
		}
	}

	slog.Info("OpenTelemetry tracing initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"environment", config.Environment,
		"endpoint", config.Endpoint,
	)

	return nil
}

// initializeLogs sets up the OTLP log pipeline and reroutes the default
// slog logger through it.
func initializeLogs(ctx context.Context, config *Config, res *resource.Resource) error {
	logExporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpointURL(config.Endpoint),
	)
	if err != nil {
		return fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	loggerProvider = sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	slog.SetDefault(otelslog.NewLogger(config.ServiceName,
		otelslog.WithLoggerProvider(loggerProvider)))

	return nil
}

// Shutdown gracefully shuts down the OpenTelemetry providers.
func Shutdown(ctx context.Context) error {
	if loggerProvider != nil {
		if err := loggerProvider.Shutdown(ctx); err != nil {
			return err
		}

		loggerProvider = nil
	}

	if tracerProvider == nil {
		return nil
	}

	slog.Info("Shutting down OpenTelemetry tracer provider")

	return tracerProvider.Shutdown(ctx)
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func envBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}

	return parsed
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}

	return parsed, nil
}
