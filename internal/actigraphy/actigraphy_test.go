package actigraphy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleData = `timestamp,date,activity
2003-05-07 12:00:00,2003-05-07,0
2003-05-07 12:01:00,2003-05-07,143
2003-05-07 12:02:00,2003-05-07,0
2003-05-08 00:00:00,2003-05-08,35
2003-05-08 00:01:00,2003-05-08,56
`

func TestRead(t *testing.T) {
	t.Parallel()

	series, err := Read(strings.NewReader(sampleData), "condition_1")
	require.NoError(t, err)
	assert.Equal(t, "condition_1", series.SubjectID)
	require.Len(t, series.Samples, 5)
	assert.Equal(t, "2003-05-07", series.Samples[0].Date)
	assert.Equal(t, 143, series.Samples[1].Activity)
}

func TestReadIsoTimestamp(t *testing.T) {
	t.Parallel()

	// Some exports write T-separated timestamps and float activity counts
	data := "timestamp,date,activity\n2003-05-07T12:00:00,2003-05-07,12.0\n"

	series, err := Read(strings.NewReader(data), "control_2")
	require.NoError(t, err)
	require.Len(t, series.Samples, 1)
	assert.Equal(t, 12, series.Samples[0].Activity)
}

func TestReadRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
		want string
	}{
		{
			name: "wrong header",
			data: "time,date,activity\n",
			want: "header",
		},
		{
			name: "negative activity",
			data: "timestamp,date,activity\n2003-05-07 12:00:00,2003-05-07,-4\n",
			want: "negative activity",
		},
		{
			name: "fractional activity",
			data: "timestamp,date,activity\n2003-05-07 12:00:00,2003-05-07,3.5\n",
			want: "fractional activity",
		},
		{
			name: "bad timestamp",
			data: "timestamp,date,activity\n07.05.2003 12:00,2003-05-07,3\n",
			want: "invalid timestamp",
		},
		{
			name: "bad date",
			data: "timestamp,date,activity\n2003-05-07 12:00:00,07.05.2003,3\n",
			want: "invalid date",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Read(strings.NewReader(tc.data), "condition_1")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSplitDays(t *testing.T) {
	t.Parallel()

	series, err := Read(strings.NewReader(sampleData), "condition_1")
	require.NoError(t, err)

	days := SplitDays(series)
	require.Len(t, days, 2)
	assert.Equal(t, "2003-05-07", days[0].Date)
	assert.Len(t, days[0].Samples, 3)
	assert.Equal(t, "2003-05-08", days[1].Date)
	assert.Len(t, days[1].Samples, 2)

	filtered := FilterDays(days, 3)
	require.Len(t, filtered, 1)
	assert.Equal(t, "2003-05-07", filtered[0].Date)
}

func TestFeatures(t *testing.T) {
	t.Parallel()

	series, err := Read(strings.NewReader(sampleData), "condition_1")
	require.NoError(t, err)

	days := SplitDays(series)
	require.Len(t, days, 2)

	f, err := Features(&days[0])
	require.NoError(t, err)
	assert.Equal(t, "2003-05-07", f.Date)
	assert.Equal(t, 3, f.Count)
	assert.InDelta(t, 47.666667, f.Mean, 0.001)
	// sample stddev of {0, 143, 0}
	assert.InDelta(t, 82.560684, f.StdDev, 0.001)
	assert.InDelta(t, 2.0/3.0, f.ZeroProportion, 0.001)
	assert.Equal(t, 143, f.Peak)

	f, err = Features(&days[1])
	require.NoError(t, err)
	assert.InDelta(t, 45.5, f.Mean, 0.001)
	assert.InDelta(t, 0.0, f.ZeroProportion, 0.001)
	assert.Equal(t, 56, f.Peak)
}

func TestFeaturesEmptyDay(t *testing.T) {
	t.Parallel()

	day := Day{Date: "2003-05-07"}
	_, err := Features(&day)
	assert.Error(t, err)
}

func TestSeriesFeatures(t *testing.T) {
	t.Parallel()

	series, err := Read(strings.NewReader(sampleData), "condition_1")
	require.NoError(t, err)

	features, err := SeriesFeatures(series, 0)
	require.NoError(t, err)
	require.Len(t, features, 2)

	mean, ok := MeanDailyActivity(features)
	require.True(t, ok)
	assert.InDelta(t, (47.666667+45.5)/2, mean, 0.001)

	// Partial days dropped below the sample floor
	features, err = SeriesFeatures(series, 3)
	require.NoError(t, err)
	require.Len(t, features, 1)

	_, ok = MeanDailyActivity(nil)
	assert.False(t, ok)
}
