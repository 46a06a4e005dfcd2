// Package baseline implements a deliberately simple activity-threshold
// classifier so the evaluation pipeline can be exercised end to end without
// external model output. It is a harness, not a research claim.
package baseline

import (
	"math"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/errors"
	"github.com/ng-daniel/depresjon-go/internal/evaluation"
)

// ModelName identifies baseline output in stored evaluation runs.
const ModelName = "ActivityThreshold"

// Subject is one classified individual: its true label and the mean of its
// per-day mean activity counts.
type Subject struct {
	ID           string
	Actual       evaluation.Class
	MeanActivity float64
}

// Classifier scores subjects by mean daily activity. Lower activity scores
// towards the condition class.
type Classifier struct {
	Threshold   float64 // mean daily activity at which the score is 0.5
	Sensitivity float64 // sigmoid sensitivity
	Scale       float64 // activity normalization divisor
}

// New creates a classifier from the configured baseline settings.
func New(settings *conf.BaselineSettings) *Classifier {
	return &Classifier{
		Threshold:   settings.Threshold,
		Sensitivity: settings.Sensitivity,
		Scale:       settings.Scale,
	}
}

// Score returns the predicted probability of the condition class for a mean
// daily activity value.
func (c *Classifier) Score(meanActivity float64) float64 {
	x := (c.Threshold - meanActivity) / c.Scale
	return sigmoid(x, c.Sensitivity)
}

// Classify applies the 0.5 decision boundary to a score.
func Classify(score float64) evaluation.Class {
	if score >= 0.5 {
		return evaluation.ClassCondition
	}
	return evaluation.ClassControl
}

// Predict scores every subject and partitions them into folds round-robin in
// the given subject order, which callers keep stable across runs.
func (c *Classifier) Predict(subjects []Subject, folds int) ([]evaluation.Prediction, error) {
	if len(subjects) == 0 {
		return nil, errors.Newf("no subjects to classify").
			Category(errors.CategoryEvaluation).
			Component("baseline").
			Build()
	}
	if folds < 1 {
		folds = 1
	}
	if folds > len(subjects) {
		folds = len(subjects)
	}

	preds := make([]evaluation.Prediction, 0, len(subjects))
	for i := range subjects {
		score := c.Score(subjects[i].MeanActivity)
		preds = append(preds, evaluation.Prediction{
			Subject:   subjects[i].ID,
			Fold:      i % folds,
			Actual:    subjects[i].Actual,
			Predicted: Classify(score),
			Score:     score,
		})
	}

	return preds, nil
}

// sigmoid applies a sigmoid function with sensitivity adjustment to a value.
func sigmoid(x, sensitivity float64) float64 {
	return 1.0 / (1.0 + math.Exp(-sensitivity*x))
}
