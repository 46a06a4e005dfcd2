// Package observability provides metrics and monitoring capabilities for the depresjon-go application.
package observability

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ng-daniel/depresjon-go/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	Dataset    *metrics.DatasetMetrics
	Evaluation *metrics.EvaluationMetrics
	Datastore  *metrics.DatastoreMetrics
	HTTP       *metrics.HTTPMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	datasetMetrics, err := metrics.NewDatasetMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset metrics: %w", err)
	}

	evaluationMetrics, err := metrics.NewEvaluationMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation metrics: %w", err)
	}

	datastoreMetrics, err := metrics.NewDatastoreMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore metrics: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	return &Metrics{
		registry:   registry,
		Dataset:    datasetMetrics,
		Evaluation: evaluationMetrics,
		Datastore:  datastoreMetrics,
		HTTP:       httpMetrics,
	}, nil
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// RegisterHandlers registers the metrics endpoint with the provided http.ServeMux.
func (m *Metrics) RegisterHandlers(mux *http.ServeMux) {
	mux.Handle("/metrics", m.Handler())
}
