package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all label-service metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// External service call metrics
	ExternalCallsTotal   *prometheus.CounterVec
	ExternalCallDuration *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec

	// Business metrics
	LabelsPurchased   *prometheus.CounterVec
	CustomsGenerated  *prometheus.CounterVec
	NormalizerFormats *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "labelsvc",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	m.ExternalCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "external_calls_total",
			Help:      "Total number of calls to external services",
		},
		[]string{"service", "target", "operation", "outcome"},
	)

	m.ExternalCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "external_call_duration_seconds",
			Help:      "External service call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "target", "operation"},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service", "breaker"},
	)

	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_trips_total",
			Help:      "Total number of circuit breaker trips",
		},
		[]string{"service", "breaker"},
	)

	m.LabelsPurchased = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "labels_purchased_total",
			Help:      "Total number of shipping labels purchased",
		},
		[]string{"service", "carrier", "international"},
	)

	m.CustomsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "customs_declarations_total",
			Help:      "Total number of customs declarations built",
		},
		[]string{"service", "form_type"},
	)

	m.NormalizerFormats = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "normalizer_formats_total",
			Help:      "Input formats recognized by the normalizer",
		},
		[]string{"service", "format"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ExternalCallsTotal,
		m.ExternalCallDuration,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
		m.LabelsPurchased,
		m.CustomsGenerated,
		m.NormalizerFormats,
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// RecordExternalCall records a call to an external service
func (m *Metrics) RecordExternalCall(target, operation string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.ExternalCallsTotal.WithLabelValues(m.serviceName, target, operation, outcome).Inc()
	m.ExternalCallDuration.WithLabelValues(m.serviceName, target, operation).Observe(duration.Seconds())
}

// RecordLabelPurchased records a purchased label
func (m *Metrics) RecordLabelPurchased(carrier string, international bool) {
	m.LabelsPurchased.WithLabelValues(m.serviceName, carrier, strconv.FormatBool(international)).Inc()
}

// RecordCustomsGenerated records a built customs declaration
func (m *Metrics) RecordCustomsGenerated(formType string) {
	m.CustomsGenerated.WithLabelValues(m.serviceName, formType).Inc()
}

// RecordNormalizerFormat records the input format the normalizer detected
func (m *Metrics) RecordNormalizerFormat(format string) {
	m.NormalizerFormats.WithLabelValues(m.serviceName, format).Inc()
}

// RecordCircuitBreakerState records a breaker state (0=closed, 1=half-open, 2=open)
func (m *Metrics) RecordCircuitBreakerState(breaker string, state float64) {
	m.CircuitBreakerState.WithLabelValues(m.serviceName, breaker).Set(state)
}

// RecordCircuitBreakerTrip records a closed-to-open transition
func (m *Metrics) RecordCircuitBreakerTrip(breaker string) {
	m.CircuitBreakerTrips.WithLabelValues(m.serviceName, breaker).Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
