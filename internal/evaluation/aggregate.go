package evaluation

import (
	"fmt"
	"math"
	"sort"

	"github.com/ng-daniel/depresjon-go/internal/errors"
)

// EvaluateFolds groups predictions by fold, evaluates each fold in ascending
// fold order and appends the support-weighted average row.
func EvaluateFolds(model string, preds []Prediction, epsilon float64) (RunMetrics, error) {
	if len(preds) == 0 {
		return RunMetrics{}, errors.Newf("no predictions to evaluate").
			Category(errors.CategoryEvaluation).
			Component("evaluation").
			Build()
	}

	byFold := make(map[int][]Prediction)
	for i := range preds {
		byFold[preds[i].Fold] = append(byFold[preds[i].Fold], preds[i])
	}

	folds := make([]int, 0, len(byFold))
	for fold := range byFold {
		folds = append(folds, fold)
	}
	sort.Ints(folds)

	run := RunMetrics{Model: model}
	for _, fold := range folds {
		row, err := Evaluate(model, fmt.Sprintf("fold_%d", fold), byFold[fold], epsilon)
		if err != nil {
			return RunMetrics{}, err
		}
		run.Rows = append(run.Rows, row)
	}

	avg, err := WeightedAverage(run.Rows)
	if err != nil {
		return RunMetrics{}, err
	}
	run.Rows = append(run.Rows, avg)

	return run, nil
}

// WeightedAverage aggregates fold rows into a single row. Class-suffixed
// metrics are weighted by their class support in each fold, loss, accuracy
// and MCC are averaged plainly, supports are summed. Folds where a class has
// zero support contribute nothing to that class's weighted metrics.
func WeightedAverage(folds []FoldMetrics) (FoldMetrics, error) {
	if len(folds) == 0 {
		return FoldMetrics{}, errors.Newf("no fold rows to average").
			Category(errors.CategoryEvaluation).
			Component("evaluation").
			Build()
	}

	avg := FoldMetrics{
		Model: folds[0].Model,
		Note:  WeightedAverageNote,
	}

	n := float64(len(folds))
	for i := range folds {
		avg.Loss += folds[i].Loss / n
		avg.Accuracy += folds[i].Accuracy / n
		avg.MCC += folds[i].MCC / n
	}

	avg.Control = weightedClassAverage(folds, func(f *FoldMetrics) *ClassMetrics { return &f.Control })
	avg.Condition = weightedClassAverage(folds, func(f *FoldMetrics) *ClassMetrics { return &f.Condition })

	return avg, nil
}

// weightedClassAverage averages one class's metrics across folds, weighted by
// that class's support per fold.
func weightedClassAverage(folds []FoldMetrics, class func(*FoldMetrics) *ClassMetrics) ClassMetrics {
	var precSum, recSum, f1Sum float64
	var weight int

	for i := range folds {
		m := class(&folds[i])
		if m.Support == 0 {
			continue
		}
		w := float64(m.Support)
		precSum += m.Precision * w
		recSum += m.Recall * w
		f1Sum += m.F1 * w
		weight += m.Support
	}

	if weight == 0 {
		return ClassMetrics{Precision: math.NaN(), Recall: math.NaN(), F1: math.NaN()}
	}

	return ClassMetrics{
		Precision: precSum / float64(weight),
		Recall:    recSum / float64(weight),
		F1:        f1Sum / float64(weight),
		Support:   weight,
	}
}

// CombineRuns collects each run's weighted-average row, renumbered per run,
// and appends the plain mean of those rows as a final combined row.
func CombineRuns(runs []RunMetrics) ([]FoldMetrics, error) {
	if len(runs) == 0 {
		return nil, errors.Newf("no runs to combine").
			Category(errors.CategoryEvaluation).
			Component("evaluation").
			Build()
	}

	var rows []FoldMetrics
	for i := range runs {
		avg, ok := runs[i].WeightedAverage()
		if !ok {
			return nil, errors.Newf("run %d for model %s has no weighted-average row", i+1, runs[i].Model).
				Category(errors.CategoryEvaluation).
				Component("evaluation").
				Build()
		}
		avg.Note = fmt.Sprintf("%d_%s", i+1, WeightedAverageNote)
		rows = append(rows, avg)
	}

	mean := rows[0]
	mean.Note = WeightedAverageNote
	n := float64(len(rows))

	mean.Loss, mean.Accuracy, mean.MCC = 0, 0, 0
	mean.Control, mean.Condition = ClassMetrics{}, ClassMetrics{}
	var controlSupport, conditionSupport float64
	for i := range rows {
		mean.Loss += rows[i].Loss / n
		mean.Accuracy += rows[i].Accuracy / n
		mean.MCC += rows[i].MCC / n
		mean.Control.Precision += rows[i].Control.Precision / n
		mean.Control.Recall += rows[i].Control.Recall / n
		mean.Control.F1 += rows[i].Control.F1 / n
		mean.Condition.Precision += rows[i].Condition.Precision / n
		mean.Condition.Recall += rows[i].Condition.Recall / n
		mean.Condition.F1 += rows[i].Condition.F1 / n
		controlSupport += float64(rows[i].Control.Support) / n
		conditionSupport += float64(rows[i].Condition.Support) / n
	}
	mean.Control.Support = int(math.Round(controlSupport))
	mean.Condition.Support = int(math.Round(conditionSupport))

	return append(rows, mean), nil
}

// SummaryTable reduces each run to one comparison line built from its
// weighted-average row, with class metrics macro-averaged.
func SummaryTable(runs []RunMetrics) ([]ModelSummary, error) {
	summaries := make([]ModelSummary, 0, len(runs))

	for i := range runs {
		avg, ok := runs[i].WeightedAverage()
		if !ok {
			return nil, errors.Newf("run for model %s has no weighted-average row", runs[i].Model).
				Category(errors.CategoryEvaluation).
				Component("evaluation").
				Build()
		}

		summaries = append(summaries, ModelSummary{
			Model:     avg.Model,
			Loss:      avg.Loss,
			Accuracy:  avg.Accuracy,
			Precision: (avg.Control.Precision + avg.Condition.Precision) / 2,
			Recall:    (avg.Control.Recall + avg.Condition.Recall) / 2,
			F1:        (avg.Control.F1 + avg.Condition.F1) / 2,
		})
	}

	return summaries, nil
}

// ClassBreakdown reformats one evaluation row into per-class rows plus macro
// and support-ratio-weighted average rows.
func ClassBreakdown(row *FoldMetrics) []ClassRow {
	control := ClassRow{
		Note:      ClassControl.String(),
		Precision: row.Control.Precision,
		Recall:    row.Control.Recall,
		F1:        row.Control.F1,
		Support:   float64(row.Control.Support),
	}
	condition := ClassRow{
		Note:      ClassCondition.String(),
		Precision: row.Condition.Precision,
		Recall:    row.Condition.Recall,
		F1:        row.Condition.F1,
		Support:   float64(row.Condition.Support),
	}

	macro := ClassRow{
		Note:      "macro_avg",
		Precision: (control.Precision + condition.Precision) / 2,
		Recall:    (control.Recall + condition.Recall) / 2,
		F1:        (control.F1 + condition.F1) / 2,
		Support:   (control.Support + condition.Support) / 2,
	}

	// Weight the control class by the support ratio between the classes
	ratio := control.Support / condition.Support
	weighted := ClassRow{
		Note:      WeightedAverageNote,
		Precision: (control.Precision*ratio + condition.Precision) / (1 + ratio),
		Recall:    (control.Recall*ratio + condition.Recall) / (1 + ratio),
		F1:        (control.F1*ratio + condition.F1) / (1 + ratio),
		Support:   (control.Support*ratio + condition.Support) / (1 + ratio),
	}

	return []ClassRow{control, condition, macro, weighted}
}
