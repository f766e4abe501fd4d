package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if err := ProductionConfig().Validate(); err != nil {
		t.Errorf("production config invalid: %v", err)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "noisy" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad sampling rate", func(c *Config) { c.Tracing.SamplingRate = 1.5 }},
		{"bad exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggingConfig{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	l := &Logger{logger.Output(&buf)}

	l.WithProvider("aws").WithResourceID("aws-vm-1234abcd").Info().Msg("vm created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["provider"] != "aws" || entry["resource_id"] != "aws-vm-1234abcd" {
		t.Errorf("log fields = %v", entry)
	}
	if entry["message"] != "vm created" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggingConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	l := &Logger{logger.Output(&buf)}

	l.Info().Msg("filtered")
	if buf.Len() != 0 {
		t.Errorf("info line leaked through warn level: %s", buf.String())
	}
	l.Warn().Msg("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn line missing")
	}
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger(LoggingConfig{Level: "chatty", Format: "json"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLoggerContextRoundTrip(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "info", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}

	ctx := logger.WithContext(t.Context())
	if got := FromContext(ctx); got != logger {
		t.Error("context round trip lost the logger")
	}

	// A bare context yields a usable fallback, never nil.
	if got := FromContext(t.Context()); got == nil {
		t.Error("FromContext returned nil for bare context")
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, Namespace: "vmforge"})

	m.ConstructionStarted("aws", "standard")
	m.ConstructionCompleted("aws", "standard", "success", 10*time.Millisecond)
	m.ResourceCreated("aws", "network")
	m.ResourceCreated("aws", "vm")
	m.SetTemplatesRegistered(3)
	m.ValidationFailed("region_mismatch")

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}

	found := make(map[string]bool)
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	for _, want := range []string{
		"vmforge_constructions_started_total",
		"vmforge_constructions_completed_total",
		"vmforge_resources_created_total",
		"vmforge_templates_registered",
		"vmforge_validation_failures_total",
	} {
		if !found[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	// Must not panic.
	m.ConstructionStarted("aws", "standard")
	m.ResourceCreated("aws", "vm")
	m.ErrorOccurred("not_found")
}

func TestEventPublisherDelivery(t *testing.T) {
	p := NewEventPublisher(EventsConfig{Enabled: true, BufferSize: 16})

	var mu sync.Mutex
	var got []Event
	p.Subscribe(func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})

	p.Publish(Event{Type: EventConstructionStarted, Provider: "aws"})
	p.Publish(Event{Type: EventResourceCreated, Resource: "aws-vm-1234abcd"})
	p.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("delivered = %d events, want 2", len(got))
	}
	if got[0].Type != EventConstructionStarted || got[1].Type != EventResourceCreated {
		t.Errorf("events = %v", got)
	}
	if got[0].Timestamp.IsZero() {
		t.Error("timestamp not stamped on publish")
	}
}

func TestEventPublisherDisabled(t *testing.T) {
	p := NewEventPublisher(EventsConfig{Enabled: false})

	// All operations are no-ops and must not panic.
	p.Subscribe(func(Event) {})
	p.Publish(Event{Type: EventConstructionStarted})
	p.Close()
}

func TestEventPublisherPublishAfterClose(t *testing.T) {
	p := NewEventPublisher(EventsConfig{Enabled: true, BufferSize: 1})
	p.Close()

	// Must not panic on a closed publisher.
	p.Publish(Event{Type: EventConstructionCompleted})
}

func TestParseLevel(t *testing.T) {
	for level, want := range map[string]zerolog.Level{
		"trace": zerolog.TraceLevel,
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"fatal": zerolog.FatalLevel,
	} {
		got, err := parseLevel(level)
		if err != nil {
			t.Errorf("%s: %v", level, err)
			continue
		}
		if got != want {
			t.Errorf("%s: got %v", level, got)
		}
	}
}
