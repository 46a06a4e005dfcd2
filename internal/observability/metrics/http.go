package metrics

import "github.com/prometheus/client_golang/prometheus"

// HTTPMetrics contains Prometheus metrics for the API server
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers new HTTP metrics
func NewHTTPMetrics(registry *prometheus.Registry) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests handled",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Time taken to handle one HTTP request",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"method", "path"},
		),
	}

	collectors := []prometheus.Collector{m.requestsTotal, m.requestDuration}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordRequest counts one handled request.
func (m *HTTPMetrics) RecordRequest(method, path, status string, seconds float64) {
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(seconds)
}
