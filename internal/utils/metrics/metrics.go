package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Generation metrics
	GenerationRequestsTotal   *prometheus.CounterVec
	GenerationRequestDuration *prometheus.HistogramVec

	// Gallery metrics
	GalleryRecords        prometheus.Gauge
	GalleryMutationsTotal *prometheus.CounterVec

	// Storage metrics
	StorageOpsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "imagestudio"
	}

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Generation metrics
		GenerationRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "requests_total",
				Help:      "Total number of generation/edit requests",
			},
			[]string{"model", "status"},
		),
		GenerationRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "request_duration_seconds",
				Help:      "Generation request duration in seconds",
				Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"model"},
		),

		// Gallery metrics
		GalleryRecords: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "gallery",
				Name:      "records",
				Help:      "Current number of records in the gallery",
			},
		),
		GalleryMutationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gallery",
				Name:      "mutations_total",
				Help:      "Total number of gallery mutations",
			},
			[]string{"action"}, // add_batch, toggle_favorite, delete
		),

		// Storage metrics
		StorageOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "ops_total",
				Help:      "Total number of persistence operations",
			},
			[]string{"op", "status"}, // op: save, load; status: ok, error
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGenerationRequest records a generation/edit request.
func (m *Metrics) RecordGenerationRequest(model, status string, duration time.Duration) {
	m.GenerationRequestsTotal.WithLabelValues(model, status).Inc()
	m.GenerationRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordGalleryMutation records a gallery mutation and the new size.
func (m *Metrics) RecordGalleryMutation(action string, size int) {
	m.GalleryMutationsTotal.WithLabelValues(action).Inc()
	m.GalleryRecords.Set(float64(size))
}

// RecordStorageOp records a persistence operation.
func (m *Metrics) RecordStorageOp(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StorageOpsTotal.WithLabelValues(op, status).Inc()
}

// statusCodeToString converts a status code to a class bucket to keep
// label cardinality low.
func statusCodeToString(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
