// Package datastore integration with the observability metrics package
package datastore

import (
	"time"

	"github.com/ng-daniel/depresjon-go/internal/observability/metrics"
)

// Metrics is a type alias for metrics.DatastoreMetrics
// This allows us to use the metrics throughout the datastore package
type Metrics = metrics.DatastoreMetrics

// SetMetrics attaches a metrics collector to the datastore. Passing nil
// disables recording.
func (ds *DataStore) SetMetrics(m *Metrics) {
	ds.metrics = m
}

// recordOperation records the outcome and duration of one database operation
// when a metrics collector is attached.
func (ds *DataStore) recordOperation(operation string, start time.Time, err error) {
	if ds.metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	ds.metrics.RecordOperation(operation, status, time.Since(start).Seconds())
}
