package telemetry

import (
	"context"
	"fmt"
)

// Telemetry bundles the logger, tracer, metrics, and event publisher
// for a running VMForge instance.
type Telemetry struct {
	Logger  *Logger
	Tracer  *Tracer
	Metrics *Metrics
	Events  *EventPublisher
	config  *Config
}

// telemetryContextKey is the context key for the telemetry bundle.
type telemetryContextKey struct{}

// New creates a fully initialized telemetry bundle from the configuration.
func New(ctx context.Context, cfg *Config) (*Telemetry, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := NewTracer(ctx, cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &Telemetry{
		Logger:  logger,
		Tracer:  tracer,
		Metrics: NewMetrics(cfg.Metrics),
		Events:  NewEventPublisher(cfg.Events),
		config:  cfg,
	}, nil
}

// WithContext returns a copy of ctx carrying the telemetry bundle and
// its logger.
func (t *Telemetry) WithContext(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, telemetryContextKey{}, t)
	return t.Logger.WithContext(ctx)
}

// FromTelemetryContext retrieves the telemetry bundle from ctx. Returns
// nil when no bundle is attached.
func FromTelemetryContext(ctx context.Context) *Telemetry {
	if t, ok := ctx.Value(telemetryContextKey{}).(*Telemetry); ok {
		return t
	}
	return nil
}

// Shutdown flushes and stops all telemetry components.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var firstErr error

	if t.Events != nil {
		t.Events.Close()
	}
	if t.Tracer != nil {
		if err := t.Tracer.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if t.Metrics != nil {
		if err := t.Metrics.StopMetricsServer(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
