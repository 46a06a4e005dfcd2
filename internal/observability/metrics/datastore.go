package metrics

import "github.com/prometheus/client_golang/prometheus"

// DatastoreMetrics contains Prometheus metrics for datastore operations
type DatastoreMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewDatastoreMetrics creates and registers new datastore metrics
func NewDatastoreMetrics(registry *prometheus.Registry) (*DatastoreMetrics, error) {
	m := &DatastoreMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datastore_operations_total",
				Help: "Total number of database operations",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datastore_operation_duration_seconds",
				Help:    "Time taken for database operations",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
			},
			[]string{"operation"},
		),
	}

	collectors := []prometheus.Collector{m.operationsTotal, m.operationDuration}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordOperation counts one database operation.
func (m *DatastoreMetrics) RecordOperation(operation, status string, seconds float64) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(seconds)
}
