// Package evaluation scores condition-vs-control classifier output: per-fold
// loss, accuracy, per-class precision/recall/F1/support and Matthews
// correlation, plus support-weighted aggregation across folds and runs.
package evaluation

import "math"

// Class labels follow the study convention: 0 is control, 1 is condition.
type Class int

const (
	ClassControl   Class = 0
	ClassCondition Class = 1
)

func (c Class) String() string {
	switch c {
	case ClassControl:
		return "control"
	case ClassCondition:
		return "condition"
	default:
		return "invalid"
	}
}

// Valid reports whether the class is one of the two study labels.
func (c Class) Valid() bool {
	return c == ClassControl || c == ClassCondition
}

// DefaultEpsilon clamps predicted probabilities inside log loss.
const DefaultEpsilon = 1e-7

// Prediction is one classified subject. Score is the predicted probability of
// the condition class.
type Prediction struct {
	Subject   string
	Fold      int
	Actual    Class
	Predicted Class
	Score     float64
}

// ClassMetrics holds the per-class quality metrics of one evaluation. A class
// absent from the evaluated set yields NaN metrics with zero support.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// FoldMetrics is one evaluation row: a single fold, a weighted average, or a
// combined mean, distinguished by Note.
type FoldMetrics struct {
	Model     string
	Note      string
	Loss      float64 // binary cross entropy over the prediction scores
	Accuracy  float64
	Control   ClassMetrics
	Condition ClassMetrics
	MCC       float64 // Matthews correlation coefficient
}

// WeightedAverageNote marks the support-weighted average row of a run.
const WeightedAverageNote = "wt_avg"

// RunMetrics is the ordered fold rows of one evaluation run plus its
// weighted-average row.
type RunMetrics struct {
	Model string
	Rows  []FoldMetrics
}

// WeightedAverage returns the run's weighted-average row, or false when the
// run has not been aggregated.
func (r *RunMetrics) WeightedAverage() (FoldMetrics, bool) {
	for i := range r.Rows {
		if r.Rows[i].Note == WeightedAverageNote {
			return r.Rows[i], true
		}
	}
	return FoldMetrics{}, false
}

// ModelSummary is one line of the cross-model comparison table: loss,
// accuracy and macro-averaged class metrics.
type ModelSummary struct {
	Model     string
	Loss      float64
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// ClassRow is one line of a per-class metric breakdown.
type ClassRow struct {
	Note      string // "control", "condition", "macro_avg" or "wt_avg"
	Precision float64
	Recall    float64
	F1        float64
	Support   float64
}

// isNaN is a readability alias used throughout the aggregation code.
func isNaN(v float64) bool { return math.IsNaN(v) }
