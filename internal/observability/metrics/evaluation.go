package metrics

import "github.com/prometheus/client_golang/prometheus"

// EvaluationMetrics contains Prometheus metrics for evaluation runs
type EvaluationMetrics struct {
	runsTotal    *prometheus.CounterVec
	foldRowsTotal prometheus.Counter
	runDuration  prometheus.Histogram
}

// NewEvaluationMetrics creates and registers new evaluation metrics
func NewEvaluationMetrics(registry *prometheus.Registry) (*EvaluationMetrics, error) {
	m := &EvaluationMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evaluation_runs_total",
				Help: "Total number of evaluation runs scored",
			},
			[]string{"model"},
		),
		foldRowsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "evaluation_fold_rows_total",
				Help: "Total number of fold rows computed",
			},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "evaluation_run_duration_seconds",
				Help:    "Time taken to score one evaluation run",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		),
	}

	collectors := []prometheus.Collector{m.runsTotal, m.foldRowsTotal, m.runDuration}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordRun counts one scored evaluation run.
func (m *EvaluationMetrics) RecordRun(model string, foldRows int, seconds float64) {
	m.runsTotal.WithLabelValues(model).Inc()
	m.foldRowsTotal.Add(float64(foldRows))
	m.runDuration.Observe(seconds)
}
