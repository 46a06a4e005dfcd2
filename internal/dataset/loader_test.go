package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/scores"
)

const testScores = `number,days,gender,age,afftype,melanch,inpatient,edu,marriage,work,madrs1,madrs2
condition_1,11,2,35-39,2,2,2,6-10,1,2,19,19
control_1,32,1,50-54,,,,,,,,
`

const testSeries = `timestamp,date,activity
2003-05-07 12:00:00,2003-05-07,0
2003-05-07 12:01:00,2003-05-07,143
2003-05-08 00:00:00,2003-05-08,35
`

// writeDataset lays out a dataset directory with the given series files.
func writeDataset(t *testing.T, subjects ...string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scores.csv"), []byte(testScores), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "condition"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "control"), 0o755))

	for _, subject := range subjects {
		group, _, err := scores.ParseNumber(subject)
		require.NoError(t, err)
		path := filepath.Join(dir, string(group), subject+".csv")
		require.NoError(t, os.WriteFile(path, []byte(testSeries), 0o644))
	}

	return dir
}

func testSettings(dir string) *conf.Settings {
	settings := &conf.Settings{}
	settings.Dataset.Dir = dir
	settings.Dataset.ScoresFile = "scores.csv"
	settings.Analysis.Workers = 2
	return settings
}

func TestLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeDataset(t, "condition_1", "control_1")
	loader := NewLoader(testSettings(dir))

	subjects, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 2)

	// Sorted by group then index
	assert.Equal(t, "condition_1", subjects[0].Record.Number)
	assert.Equal(t, "control_1", subjects[1].Record.Number)

	require.Len(t, subjects[0].Features, 2)
	assert.Equal(t, "2003-05-07", subjects[0].Features[0].Date)
	assert.Equal(t, 2, subjects[0].Features[0].Count)

	mean, ok := subjects[0].MeanDailyActivity()
	require.True(t, ok)
	assert.InDelta(t, (71.5+35.0)/2, mean, 0.001)
}

func TestLoadMinSamplesDropsPartialDays(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeDataset(t, "condition_1", "control_1")
	settings := testSettings(dir)
	settings.Analysis.MinSamples = 2

	subjects, err := NewLoader(settings).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects[0].Features, 1)
	assert.Equal(t, "2003-05-07", subjects[0].Features[0].Date)
}

func TestLoadWorkerErrorDoesNotLeakFeeder(t *testing.T) {
	defer goleak.VerifyNone(t)

	// More pending records than the record channel buffers, so a blocked
	// feeder would outlive Load when the only worker stops early
	dir := t.TempDir()
	scoresData := "number,days,gender,age,afftype,melanch,inpatient,edu,marriage,work,madrs1,madrs2\n"
	for i := 1; i <= 7; i++ {
		scoresData += fmt.Sprintf("condition_%d,11,2,35-39,2,2,2,6-10,1,2,19,19\n", i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scores.csv"), []byte(scoresData), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "condition"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "control"), 0o755))

	corrupt := "timestamp,date,activity\nnot-a-time,2003-05-07,12\n"
	for i := 1; i <= 7; i++ {
		path := filepath.Join(dir, "condition", fmt.Sprintf("condition_%d.csv", i))
		require.NoError(t, os.WriteFile(path, []byte(corrupt), 0o644))
	}

	settings := testSettings(dir)
	settings.Analysis.Workers = 1

	_, err := NewLoader(settings).Load(context.Background())
	require.Error(t, err)
}

func TestLoadMissingSeries(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeDataset(t, "condition_1") // control_1 has no series file

	_, err := NewLoader(testSettings(dir)).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no actigraphy file")
}

func TestLoadSkipMissing(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeDataset(t, "condition_1")
	settings := testSettings(dir)
	settings.Dataset.SkipMissing = true

	subjects, err := NewLoader(settings).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "condition_1", subjects[0].Record.Number)
}

func TestLoadOrphanSeriesIsAlwaysAnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeDataset(t, "condition_1", "control_1")
	orphan := filepath.Join(dir, "control", "control_9.csv")
	require.NoError(t, os.WriteFile(orphan, []byte(testSeries), 0o644))

	settings := testSettings(dir)
	settings.Dataset.SkipMissing = true

	_, err := NewLoader(settings).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no scores row")
}

func TestLoadMissingLayout(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := NewLoader(testSettings(t.TempDir())).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scores file not found")
}

func TestLoadCanceledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeDataset(t, "condition_1", "control_1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(testSettings(dir)).Load(ctx)
	require.Error(t, err)
}

func TestClampInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, clampInt(0, 1, 8))
	assert.Equal(t, 4, clampInt(4, 1, 8))
	assert.Equal(t, 8, clampInt(32, 1, 8))
}
