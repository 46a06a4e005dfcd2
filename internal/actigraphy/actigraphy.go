// Package actigraphy handles the per-subject wrist activity time series:
// one CSV row per minute of accelerometer counts.
package actigraphy

import "time"

// Timestamp layouts accepted in the published files.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Sample is one minute of recorded activity.
type Sample struct {
	Timestamp time.Time // minute the count was recorded
	Date      string    // calendar date as written in the file, YYYY-MM-DD
	Activity  int       // accelerometer count for the minute
}

// Series is the full recording of one subject.
type Series struct {
	SubjectID string
	Samples   []Sample
}

// Day groups the samples sharing one calendar date, in file order.
type Day struct {
	Date    string
	Samples []Sample
}

// SplitDays groups a series into days by the file's date column. Grouping is
// stable, days appear in the order their first sample appears in the file.
func SplitDays(series *Series) []Day {
	var days []Day
	index := make(map[string]int)

	for _, sample := range series.Samples {
		i, ok := index[sample.Date]
		if !ok {
			i = len(days)
			index[sample.Date] = i
			days = append(days, Day{Date: sample.Date})
		}
		days[i].Samples = append(days[i].Samples, sample)
	}

	return days
}

// FilterDays drops days with fewer than minSamples samples. The published
// recordings routinely start and end mid-day, so partial first and last days
// are the norm. A minSamples of 0 keeps everything.
func FilterDays(days []Day, minSamples int) []Day {
	if minSamples <= 0 {
		return days
	}

	kept := days[:0]
	for _, day := range days {
		if len(day.Samples) >= minSamples {
			kept = append(kept, day)
		}
	}
	return kept
}
