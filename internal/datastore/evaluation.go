// evaluation.go: conversion between in-memory evaluation results and their
// stored form.
package datastore

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ng-daniel/depresjon-go/internal/evaluation"
)

// NewEvaluationRun assigns a fresh run UUID and flattens the run's fold rows
// into their storage form.
func NewEvaluationRun(run *evaluation.RunMetrics, note, sourceNode string) (EvaluationRun, []FoldScore) {
	stored := EvaluationRun{
		RunID:      uuid.New().String(),
		Model:      run.Model,
		Note:       note,
		SourceNode: sourceNode,
		CreatedAt:  time.Now(),
	}

	folds := make([]FoldScore, 0, len(run.Rows))
	for i := range run.Rows {
		folds = append(folds, foldScoreFromMetrics(&run.Rows[i]))
	}

	return stored, folds
}

func foldScoreFromMetrics(row *evaluation.FoldMetrics) FoldScore {
	return FoldScore{
		Note:       row.Note,
		Loss:       row.Loss,
		Accuracy:   row.Accuracy,
		Precision0: nullableMetric(row.Control.Precision),
		Precision1: nullableMetric(row.Condition.Precision),
		Recall0:    nullableMetric(row.Control.Recall),
		Recall1:    nullableMetric(row.Condition.Recall),
		F1Score0:   nullableMetric(row.Control.F1),
		F1Score1:   nullableMetric(row.Condition.F1),
		Support0:   row.Control.Support,
		Support1:   row.Condition.Support,
		MCC:        row.MCC,
	}
}

// nullableMetric maps an undefined (NaN) metric to nil so it stores as NULL.
// SQLite binds a NaN double as NULL, which a plain float64 cannot scan back.
func nullableMetric(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// metricValue maps a stored NULL metric back to NaN.
func metricValue(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// ToRunMetrics converts a stored run with its fold rows back to the
// in-memory form.
func (r *EvaluationRun) ToRunMetrics() evaluation.RunMetrics {
	run := evaluation.RunMetrics{
		Model: r.Model,
		Rows:  make([]evaluation.FoldMetrics, 0, len(r.Folds)),
	}

	for i := range r.Folds {
		fold := &r.Folds[i]
		run.Rows = append(run.Rows, evaluation.FoldMetrics{
			Model:    r.Model,
			Note:     fold.Note,
			Loss:     fold.Loss,
			Accuracy: fold.Accuracy,
			Control: evaluation.ClassMetrics{
				Precision: metricValue(fold.Precision0),
				Recall:    metricValue(fold.Recall0),
				F1:        metricValue(fold.F1Score0),
				Support:   fold.Support0,
			},
			Condition: evaluation.ClassMetrics{
				Precision: metricValue(fold.Precision1),
				Recall:    metricValue(fold.Recall1),
				F1:        metricValue(fold.F1Score1),
				Support:   fold.Support1,
			},
			MCC: fold.MCC,
		})
	}

	return run
}
