package telemetry

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfigFromEnv_KubernetesDetection(t *testing.T) { //nolint:paralleltest
	tests := []struct {
		name             string
		kubernetesHost   string
		customEndpoint   string
		expectedEndpoint string
	}{
		{
			name:             "Kubernetes environment detected",
			kubernetesHost:   "10.0.0.1",
			expectedEndpoint: "http://opentelemetry-collector.opentelemetry.svc.cluster.local:4318",
		},
		{
			name:             "Non-Kubernetes environment",
			kubernetesHost:   "",
			expectedEndpoint: "",
		},
		{
			name:             "Custom endpoint overrides cluster default",
			kubernetesHost:   "10.0.0.1",
			customEndpoint:   "http://custom-collector:4318",
			expectedEndpoint: "http://custom-collector:4318",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_ = os.Unsetenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")

			if test.kubernetesHost != "" {
				t.Setenv("KUBERNETES_SERVICE_HOST", test.kubernetesHost)
			} else {
				_ = os.Unsetenv("KUBERNETES_SERVICE_HOST")
			}

			if test.customEndpoint != "" {
				t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", test.customEndpoint)
			}

			config, err := LoadConfigFromEnv("dev")
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}

			if config.Endpoint != test.expectedEndpoint {
				t.Errorf("Expected endpoint %s, got %s", test.expectedEndpoint, config.Endpoint)
			}
		})
	}
}

func TestLoadConfigFromEnv_DefaultValues(t *testing.T) { //nolint:paralleltest
	_ = os.Unsetenv("OTEL_ENABLED")
	_ = os.Unsetenv("OTEL_LOGS_ENABLED")
	_ = os.Unsetenv("OTEL_SERVICE_NAME")
	_ = os.Unsetenv("OTEL_SERVICE_VERSION")
	_ = os.Unsetenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT")

	config, err := LoadConfigFromEnv("test")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Enabled {
		t.Errorf("Expected Enabled to be false, got %t", config.Enabled)
	}

	if config.ExportLogs {
		t.Errorf("Expected ExportLogs to be false, got %t", config.ExportLogs)
	}

	if config.ServiceName != defaultServiceName {
		t.Errorf("Expected ServiceName %s, got %s", defaultServiceName, config.ServiceName)
	}

	if config.ServiceVersion != defaultServiceVersion {
		t.Errorf("Expected ServiceVersion %s, got %s", defaultServiceVersion, config.ServiceVersion)
	}

	if config.Environment != "test" {
		t.Errorf("Expected Environment 'test', got %s", config.Environment)
	}

	if config.Timeout != defaultTimeout {
		t.Errorf("Expected Timeout %s, got %s", defaultTimeout, config.Timeout)
	}
}

func TestLoadConfigFromEnv_InvalidTimeout(t *testing.T) { //nolint:paralleltest
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "not-a-duration")

	_, err := LoadConfigFromEnv("test")
	if err == nil {
		t.Fatal("Expected error for invalid timeout")
	}
}

func TestLoadConfigFromEnv_TimeoutOverride(t *testing.T) { //nolint:paralleltest
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "30s")

	config, err := LoadConfigFromEnv("test")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Timeout != 30*time.Second {
		t.Errorf("Expected Timeout 30s, got %s", config.Timeout)
	}
}
