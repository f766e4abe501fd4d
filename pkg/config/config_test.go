package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.ListenAddress != ":8080" {
		t.Errorf("listen = %s", cfg.Server.ListenAddress)
	}
	if cfg.Store.Enabled {
		t.Error("store should be disabled by default")
	}
	if cfg.Telemetry.LogLevel != "info" || cfg.Telemetry.LogFormat != "console" {
		t.Errorf("telemetry defaults: %+v", cfg.Telemetry)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: ":9999"
store:
  enabled: true
  path: /tmp/vmforge.db
telemetry:
  log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ListenAddress != ":9999" {
		t.Errorf("listen = %s", cfg.Server.ListenAddress)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "/tmp/vmforge.db" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Telemetry.LogLevel != "debug" {
		t.Errorf("log level = %s", cfg.Telemetry.LogLevel)
	}
	// Unset fields keep their defaults.
	if cfg.Telemetry.LogFormat != "console" {
		t.Errorf("log format = %s, want default console", cfg.Telemetry.LogFormat)
	}
	if cfg.Telemetry.MetricsAddress != ":9090" {
		t.Errorf("metrics address = %s, want default :9090", cfg.Telemetry.MetricsAddress)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "telemetry:\n  log_level: noisy\n"},
		{"bad sampling rate", "telemetry:\n  sampling_rate: 2.5\n"},
		{"bad exporter", "telemetry:\n  tracing_exporter: jaeger\n"},
		{"store without path", "store:\n  enabled: true\n  path: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTelemetrySettings(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.Environment = "production"
	cfg.Telemetry.LogFormat = "json"
	cfg.Telemetry.TracingEnabled = true
	cfg.Telemetry.TracingExporter = "otlp"
	cfg.Telemetry.TracingEndpoint = "collector:4317"
	cfg.Telemetry.SamplingRate = 0.25

	tc := cfg.TelemetrySettings("1.2.3")

	if tc.ServiceVersion != "1.2.3" {
		t.Errorf("version = %s", tc.ServiceVersion)
	}
	if tc.Environment != "production" || tc.Logging.Format != "json" {
		t.Errorf("settings = %+v", tc)
	}
	if !tc.Tracing.Enabled || tc.Tracing.Exporter != "otlp" || tc.Tracing.Endpoint != "collector:4317" {
		t.Errorf("tracing = %+v", tc.Tracing)
	}
	if tc.Tracing.SamplingRate != 0.25 {
		t.Errorf("sampling = %v", tc.Tracing.SamplingRate)
	}
}
