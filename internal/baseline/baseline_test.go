package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/evaluation"
)

func testClassifier() *Classifier {
	return New(&conf.BaselineSettings{
		Threshold:   175,
		Sensitivity: 1,
		Scale:       50,
	})
}

func TestScore(t *testing.T) {
	t.Parallel()

	c := testClassifier()

	// At the threshold the score is exactly 0.5
	assert.InDelta(t, 0.5, c.Score(175), 0.0001)

	// Lower activity scores towards condition, higher towards control
	assert.Greater(t, c.Score(100), 0.5)
	assert.Less(t, c.Score(300), 0.5)

	// Sigmoid of (175-125)/50 = 1
	assert.InDelta(t, 0.731059, c.Score(125), 0.0001)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, evaluation.ClassCondition, Classify(0.5))
	assert.Equal(t, evaluation.ClassCondition, Classify(0.9))
	assert.Equal(t, evaluation.ClassControl, Classify(0.49))
}

func TestPredict(t *testing.T) {
	t.Parallel()

	subjects := []Subject{
		{ID: "condition_1", Actual: evaluation.ClassCondition, MeanActivity: 120},
		{ID: "condition_2", Actual: evaluation.ClassCondition, MeanActivity: 150},
		{ID: "control_1", Actual: evaluation.ClassControl, MeanActivity: 280},
		{ID: "control_2", Actual: evaluation.ClassControl, MeanActivity: 310},
		{ID: "control_3", Actual: evaluation.ClassControl, MeanActivity: 200},
	}

	preds, err := testClassifier().Predict(subjects, 2)
	require.NoError(t, err)
	require.Len(t, preds, 5)

	// Round-robin fold assignment in subject order
	folds := make([]int, len(preds))
	for i := range preds {
		folds[i] = preds[i].Fold
	}
	assert.Equal(t, []int{0, 1, 0, 1, 0}, folds)

	// Low-activity subjects classified as condition, high as control
	assert.Equal(t, evaluation.ClassCondition, preds[0].Predicted)
	assert.Equal(t, evaluation.ClassCondition, preds[1].Predicted)
	assert.Equal(t, evaluation.ClassControl, preds[2].Predicted)
	assert.Equal(t, evaluation.ClassControl, preds[3].Predicted)

	for i := range preds {
		assert.GreaterOrEqual(t, preds[i].Score, 0.0)
		assert.LessOrEqual(t, preds[i].Score, 1.0)
	}
}

func TestPredictFoldClamping(t *testing.T) {
	t.Parallel()

	subjects := []Subject{
		{ID: "condition_1", Actual: evaluation.ClassCondition, MeanActivity: 120},
		{ID: "control_1", Actual: evaluation.ClassControl, MeanActivity: 280},
	}

	// More folds than subjects collapses to one subject per fold
	preds, err := testClassifier().Predict(subjects, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, preds[0].Fold)
	assert.Equal(t, 1, preds[1].Fold)

	// Zero folds collapses to a single fold
	preds, err = testClassifier().Predict(subjects, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, preds[0].Fold)
	assert.Equal(t, 0, preds[1].Fold)
}

func TestPredictEmpty(t *testing.T) {
	t.Parallel()

	_, err := testClassifier().Predict(nil, 5)
	assert.Error(t, err)
}

func TestPredictRoundTripsThroughEvaluation(t *testing.T) {
	t.Parallel()

	subjects := []Subject{
		{ID: "condition_1", Actual: evaluation.ClassCondition, MeanActivity: 100},
		{ID: "control_1", Actual: evaluation.ClassControl, MeanActivity: 300},
		{ID: "condition_2", Actual: evaluation.ClassCondition, MeanActivity: 130},
		{ID: "control_2", Actual: evaluation.ClassControl, MeanActivity: 250},
	}

	preds, err := testClassifier().Predict(subjects, 2)
	require.NoError(t, err)

	run, err := evaluation.EvaluateFolds(ModelName, preds, evaluation.DefaultEpsilon)
	require.NoError(t, err)
	require.Len(t, run.Rows, 3)

	avg, ok := run.WeightedAverage()
	require.True(t, ok)
	assert.InDelta(t, 1.0, avg.Accuracy, 0.001)
}
