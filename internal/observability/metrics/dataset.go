// Package metrics provides per-concern Prometheus metric collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// DatasetMetrics contains Prometheus metrics for dataset loading operations
type DatasetMetrics struct {
	subjectsLoadedTotal *prometheus.CounterVec
	loadErrorsTotal     *prometheus.CounterVec
	activityDaysTotal   prometheus.Counter
	loadDuration        prometheus.Histogram
}

// NewDatasetMetrics creates and registers new dataset metrics
func NewDatasetMetrics(registry *prometheus.Registry) (*DatasetMetrics, error) {
	m := &DatasetMetrics{
		subjectsLoadedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataset_subjects_loaded_total",
				Help: "Total number of subjects loaded from the dataset",
			},
			[]string{"group"},
		),
		loadErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataset_load_errors_total",
				Help: "Total number of subject load failures",
			},
			[]string{"reason"},
		),
		activityDaysTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dataset_activity_days_total",
				Help: "Total number of activity days with computed features",
			},
		),
		loadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dataset_load_duration_seconds",
				Help:    "Time taken to load one subject",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
	}

	collectors := []prometheus.Collector{
		m.subjectsLoadedTotal, m.loadErrorsTotal, m.activityDaysTotal, m.loadDuration,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordSubjectLoaded counts one successfully loaded subject and its days.
func (m *DatasetMetrics) RecordSubjectLoaded(group string, days int, seconds float64) {
	m.subjectsLoadedTotal.WithLabelValues(group).Inc()
	m.activityDaysTotal.Add(float64(days))
	m.loadDuration.Observe(seconds)
}

// RecordLoadError counts one failed subject load.
func (m *DatasetMetrics) RecordLoadError(reason string) {
	m.loadErrorsTotal.WithLabelValues(reason).Inc()
}
