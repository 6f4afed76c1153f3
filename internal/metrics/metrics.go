package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for eventmail
type Metrics struct {
	// Content generation
	EmailsGeneratedTotal  *prometheus.CounterVec
	ValidationErrorsTotal *prometheus.CounterVec
	TemplateRendersTotal  *prometheus.CounterVec

	// Event store
	EventsStored        prometheus.Gauge
	EventsAddedTotal    prometheus.Counter
	EventsRejectedTotal *prometheus.CounterVec

	// API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec
	APIErrorsTotal            *prometheus.CounterVec

	// System metrics
	UptimeSeconds prometheus.GaugeFunc

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()
	started := time.Now()

	m := &Metrics{
		EmailsGeneratedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventmail_emails_generated_total",
				Help: "Total number of generated emails",
			},
			[]string{"content_type"},
		),
		ValidationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventmail_validation_errors_total",
				Help: "Total number of validation errors attached to generated emails",
			},
			[]string{"slot", "reason"},
		),
		TemplateRendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventmail_template_renders_total",
				Help: "Total number of template renders",
			},
			[]string{"result"},
		),

		EventsStored: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "eventmail_events_stored",
				Help: "Number of events held in memory",
			},
		),
		EventsAddedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "eventmail_events_added_total",
				Help: "Total number of created events",
			},
		),
		EventsRejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventmail_events_rejected_total",
				Help: "Total number of rejected event drafts",
			},
			[]string{"reason"},
		),

		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventmail_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eventmail_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		APIErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventmail_api_errors_total",
				Help: "Total number of API errors",
			},
			[]string{"error_type"},
		),

		UptimeSeconds: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "eventmail_uptime_seconds",
				Help: "Process uptime in seconds",
			},
			func() float64 { return time.Since(started).Seconds() },
		),

		registry: reg,
	}

	reg.MustRegister(
		m.EmailsGeneratedTotal,
		m.ValidationErrorsTotal,
		m.TemplateRendersTotal,
		m.EventsStored,
		m.EventsAddedTotal,
		m.EventsRejectedTotal,
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		m.APIErrorsTotal,
		m.UptimeSeconds,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// IncEmailsGenerated increments the generated email counter
func IncEmailsGenerated(contentType string) {
	m := Global()
	if m != nil {
		m.EmailsGeneratedTotal.WithLabelValues(contentType).Inc()
	}
}

// IncValidationErrors increments the validation error counter
func IncValidationErrors(slot, reason string) {
	m := Global()
	if m != nil {
		m.ValidationErrorsTotal.WithLabelValues(slot, reason).Inc()
	}
}

// IncTemplateRenders increments the render counter; result is "ok" or "syntax_error"
func IncTemplateRenders(result string) {
	m := Global()
	if m != nil {
		m.TemplateRendersTotal.WithLabelValues(result).Inc()
	}
}

// IncEventsAdded records a created event and the new store size
func IncEventsAdded(stored int) {
	m := Global()
	if m != nil {
		m.EventsAddedTotal.Inc()
		m.EventsStored.Set(float64(stored))
	}
}

// IncEventsRejected increments the rejected draft counter
func IncEventsRejected(reason string) {
	m := Global()
	if m != nil {
		m.EventsRejectedTotal.WithLabelValues(reason).Inc()
	}
}
