package evaluation

import (
	"math"

	"github.com/ng-daniel/depresjon-go/internal/errors"
)

// confusion holds binary confusion counts with condition as the positive class.
type confusion struct {
	tp, tn, fp, fn int
}

func confusionCounts(preds []Prediction) confusion {
	var c confusion
	for i := range preds {
		switch {
		case preds[i].Actual == ClassCondition && preds[i].Predicted == ClassCondition:
			c.tp++
		case preds[i].Actual == ClassControl && preds[i].Predicted == ClassControl:
			c.tn++
		case preds[i].Actual == ClassControl && preds[i].Predicted == ClassCondition:
			c.fp++
		default:
			c.fn++
		}
	}
	return c
}

// Evaluate scores a set of predictions as one evaluation row. Metrics for a
// class with no predicted or actual members come out as NaN rather than zero
// so that absent classes are distinguishable from genuinely poor ones.
func Evaluate(model, note string, preds []Prediction, epsilon float64) (FoldMetrics, error) {
	if len(preds) == 0 {
		return FoldMetrics{}, errors.Newf("no predictions to evaluate").
			Category(errors.CategoryEvaluation).
			Component("evaluation").
			Build()
	}
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	for i := range preds {
		if !preds[i].Actual.Valid() || !preds[i].Predicted.Valid() {
			return FoldMetrics{}, errors.Newf("prediction for %s carries an invalid class label", preds[i].Subject).
				Category(errors.CategoryEvaluation).
				Component("evaluation").
				Build()
		}
		if preds[i].Score < 0 || preds[i].Score > 1 {
			return FoldMetrics{}, errors.Newf("prediction for %s has score %g outside [0,1]", preds[i].Subject, preds[i].Score).
				Category(errors.CategoryEvaluation).
				Component("evaluation").
				Build()
		}
	}

	c := confusionCounts(preds)
	total := float64(len(preds))

	metrics := FoldMetrics{
		Model:     model,
		Note:      note,
		Accuracy:  float64(c.tp+c.tn) / total,
		Loss:      logLoss(preds, epsilon),
		Control:   classMetrics(c.tn, c.fn, c.fp, c.tn+c.fp),
		Condition: classMetrics(c.tp, c.fp, c.fn, c.tp+c.fn),
		MCC:       matthewsCorrelation(c),
	}

	return metrics, nil
}

// classMetrics computes precision, recall and F1 for one class given its true
// positives, false positives, false negatives and actual member count.
// Undefined ratios come out as NaN, mirroring a zero-division-as-NaN policy.
func classMetrics(tp, fp, fn, support int) ClassMetrics {
	m := ClassMetrics{Support: support}

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	} else {
		m.Precision = math.NaN()
	}

	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	} else {
		m.Recall = math.NaN()
	}

	switch {
	case isNaN(m.Precision) || isNaN(m.Recall):
		m.F1 = math.NaN()
	case m.Precision+m.Recall == 0:
		m.F1 = 0
	default:
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m
}

// logLoss computes mean binary cross entropy over the prediction scores.
// Scores are clamped to [epsilon, 1-epsilon] to keep the logarithms finite.
func logLoss(preds []Prediction, epsilon float64) float64 {
	var sum float64
	for i := range preds {
		p := math.Min(math.Max(preds[i].Score, epsilon), 1-epsilon)
		if preds[i].Actual == ClassCondition {
			sum += -math.Log(p)
		} else {
			sum += -math.Log(1 - p)
		}
	}
	return sum / float64(len(preds))
}

// matthewsCorrelation computes the MCC from confusion counts. A degenerate
// confusion matrix yields 0.
func matthewsCorrelation(c confusion) float64 {
	numerator := float64(c.tp*c.tn - c.fp*c.fn)
	denominator := math.Sqrt(float64(c.tp+c.fp) * float64(c.tp+c.fn) * float64(c.tn+c.fp) * float64(c.tn+c.fn))
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
