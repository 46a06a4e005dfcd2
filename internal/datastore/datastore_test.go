package datastore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/evaluation"
	"github.com/ng-daniel/depresjon-go/internal/scores"
)

// newTestStore opens an in-memory SQLite datastore.
func newTestStore(t *testing.T) Interface {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = ":memory:"

	store := New(settings)
	require.NotNil(t, store)
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func testSubject(number string, days int) (Subject, []ActivityDay) {
	group, index, _ := scores.ParseNumber(number)

	subject := Subject{
		Number:       number,
		StudyGroup:   string(group),
		SubjectIndex: index,
		Days:         days,
		Gender:       int(scores.GenderFemale),
		Age:          "35-39",
	}

	activityDays := make([]ActivityDay, 0, days)
	dates := []string{"2003-05-07", "2003-05-08", "2003-05-09"}
	for i := 0; i < days && i < len(dates); i++ {
		activityDays = append(activityDays, ActivityDay{
			Date:           dates[i],
			SampleCount:    1440,
			MeanActivity:   float64(150 + 10*i),
			StdDev:         80,
			ZeroProportion: 0.3,
			PeakActivity:   900,
		})
	}

	return subject, activityDays
}

func TestNewRequiresEnabledOutput(t *testing.T) {
	t.Parallel()

	assert.Nil(t, New(&conf.Settings{}))
}

func TestSaveAndGetSubject(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	madrs := func(v float64) *float64 { return &v }
	subject, days := testSubject("condition_3", 3)
	subject.AffType = int(scores.AffTypeUnipolar)
	subject.MADRS1 = madrs(24)
	subject.MADRS2 = madrs(18)

	require.NoError(t, store.SaveSubject(&subject, days))

	got, err := store.GetSubject("condition_3")
	require.NoError(t, err)
	assert.Equal(t, "condition", got.StudyGroup)
	assert.Equal(t, 3, got.SubjectIndex)
	require.NotNil(t, got.MADRS1)
	assert.InDelta(t, 24, *got.MADRS1, 0.001)

	record := got.ToRecord()
	assert.Equal(t, scores.GroupCondition, record.Group)
	assert.Equal(t, scores.AffTypeUnipolar, record.AffType)
	require.NoError(t, scores.Validate(&record))

	_, err = store.GetSubject("condition_99")
	assert.Error(t, err)
}

func TestSaveSubjectReplacesExisting(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	subject, days := testSubject("control_1", 3)
	require.NoError(t, store.SaveSubject(&subject, days))

	// A second import of the same subject replaces the row and its days
	updated, newDays := testSubject("control_1", 2)
	require.NoError(t, store.SaveSubject(&updated, newDays))

	count, err := store.CountSubjects()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	features, err := store.DailyFeatures("control_1")
	require.NoError(t, err)
	assert.Len(t, features, 2)
}

func TestListSubjectsOrderAndFilter(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	for _, number := range []string{"control_2", "condition_10", "condition_2", "control_1"} {
		subject, days := testSubject(number, 1)
		require.NoError(t, store.SaveSubject(&subject, days))
	}

	all, err := store.ListSubjects("")
	require.NoError(t, err)
	require.Len(t, all, 4)
	// Ordered by group then numeric index, so condition_10 follows condition_2
	assert.Equal(t, "condition_2", all[0].Number)
	assert.Equal(t, "condition_10", all[1].Number)
	assert.Equal(t, "control_1", all[2].Number)
	assert.Equal(t, "control_2", all[3].Number)

	conditions, err := store.ListSubjects("condition")
	require.NoError(t, err)
	assert.Len(t, conditions, 2)
}

func TestDailyFeaturesOrderedByDate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	subject, _ := testSubject("condition_1", 2)
	days := []ActivityDay{
		{Date: "2003-05-09", SampleCount: 1440, MeanActivity: 170},
		{Date: "2003-05-07", SampleCount: 720, MeanActivity: 150},
	}
	require.NoError(t, store.SaveSubject(&subject, days))

	features, err := store.DailyFeatures("condition_1")
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "2003-05-07", features[0].Date)
	assert.Equal(t, "2003-05-09", features[1].Date)
}

func TestActivityByDate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	for _, number := range []string{"condition_1", "control_1"} {
		subject, days := testSubject(number, 3)
		require.NoError(t, store.SaveSubject(&subject, days))
	}

	all, err := store.ActivityByDate("", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2003-05-07", all[0].Date)
	assert.Equal(t, 2, all[0].SubjectCount)
	assert.InDelta(t, 150, all[0].MeanActivity, 0.001)
	assert.Equal(t, 900, all[0].PeakActivity)

	bounded, err := store.ActivityByDate("2003-05-08", "2003-05-08")
	require.NoError(t, err)
	require.Len(t, bounded, 1)
	assert.Equal(t, "2003-05-08", bounded[0].Date)
}

func TestGroupActivitySummary(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	for _, number := range []string{"condition_1", "condition_2", "control_1"} {
		subject, days := testSubject(number, 2)
		require.NoError(t, store.SaveSubject(&subject, days))
	}

	groups, err := store.GroupActivitySummary()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "condition", groups[0].StudyGroup)
	assert.Equal(t, 2, groups[0].SubjectCount)
	assert.Equal(t, 4, groups[0].DayCount)
	assert.Equal(t, "control", groups[1].StudyGroup)
	assert.Equal(t, 1, groups[1].SubjectCount)
	assert.InDelta(t, 0.3, groups[1].MeanZeroProportion, 0.001)
}

func TestSaveAndGetEvaluation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	run := evaluation.RunMetrics{
		Model: "ActivityThreshold",
		Rows: []evaluation.FoldMetrics{
			{
				Model: "ActivityThreshold", Note: "fold_0", Loss: 0.5, Accuracy: 0.8,
				Control:   evaluation.ClassMetrics{Precision: 0.8, Recall: 0.8, F1: 0.8, Support: 5},
				Condition: evaluation.ClassMetrics{Precision: 0.8, Recall: 0.8, F1: 0.8, Support: 5},
				MCC:       0.6,
			},
			{
				Model: "ActivityThreshold", Note: evaluation.WeightedAverageNote, Loss: 0.5, Accuracy: 0.8,
				Control:   evaluation.ClassMetrics{Precision: 0.8, Recall: 0.8, F1: 0.8, Support: 5},
				Condition: evaluation.ClassMetrics{Precision: 0.8, Recall: 0.8, F1: 0.8, Support: 5},
				MCC:       0.6,
			},
		},
	}

	stored, folds := NewEvaluationRun(&run, "baseline", "test-node")
	assert.NotEmpty(t, stored.RunID)
	require.Len(t, folds, 2)

	require.NoError(t, store.SaveEvaluation(&stored, folds))

	runs, err := store.ListEvaluations()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "ActivityThreshold", runs[0].Model)
	assert.Empty(t, runs[0].Folds)

	got, err := store.GetEvaluation(stored.RunID)
	require.NoError(t, err)
	require.Len(t, got.Folds, 2)
	assert.Equal(t, "fold_0", got.Folds[0].Note)

	roundTripped := got.ToRunMetrics()
	require.Len(t, roundTripped.Rows, 2)
	avg, ok := roundTripped.WeightedAverage()
	require.True(t, ok)
	assert.InDelta(t, 0.8, avg.Accuracy, 0.001)
	assert.Equal(t, 5, avg.Control.Support)

	_, err = store.GetEvaluation("not-a-run")
	assert.Error(t, err)
}

func TestSaveAndGetEvaluationWithAbsentClass(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	// A fold holding only condition subjects has no defined control metrics;
	// the stored run must still read back
	preds := []evaluation.Prediction{
		{Subject: "condition_1", Fold: 0, Actual: evaluation.ClassCondition, Predicted: evaluation.ClassCondition, Score: 0.9},
		{Subject: "condition_2", Fold: 0, Actual: evaluation.ClassCondition, Predicted: evaluation.ClassCondition, Score: 0.8},
	}
	run, err := evaluation.EvaluateFolds("ActivityThreshold", preds, evaluation.DefaultEpsilon)
	require.NoError(t, err)

	stored, folds := NewEvaluationRun(&run, "baseline", "test-node")
	require.NoError(t, store.SaveEvaluation(&stored, folds))

	got, err := store.GetEvaluation(stored.RunID)
	require.NoError(t, err)
	require.NotEmpty(t, got.Folds)
	assert.Nil(t, got.Folds[0].Precision0)
	require.NotNil(t, got.Folds[0].Precision1)
	assert.InDelta(t, 1.0, *got.Folds[0].Precision1, 0.001)

	roundTripped := got.ToRunMetrics()
	require.NotEmpty(t, roundTripped.Rows)
	assert.True(t, math.IsNaN(roundTripped.Rows[0].Control.Precision))
	assert.Equal(t, 0, roundTripped.Rows[0].Control.Support)
	assert.InDelta(t, 1.0, roundTripped.Rows[0].Condition.Recall, 0.001)
}
