package actigraphy

import (
	"math"

	"github.com/ng-daniel/depresjon-go/internal/errors"
)

// DayFeatures are the per-day baseline features used across the toolkit.
type DayFeatures struct {
	Date           string  // calendar date
	Count          int     // number of samples in the day
	Mean           float64 // mean activity count
	StdDev         float64 // sample standard deviation of activity counts
	ZeroProportion float64 // proportion of zero-activity minutes, in [0,1]
	Peak           int     // highest activity count of the day
}

// Features computes the feature vector for one day.
func Features(day *Day) (DayFeatures, error) {
	n := len(day.Samples)
	if n == 0 {
		return DayFeatures{}, errors.Newf("day %s has no samples", day.Date).
			Category(errors.CategoryActigraphy).
			Component("actigraphy").
			Build()
	}

	features := DayFeatures{Date: day.Date, Count: n}

	var sum float64
	var zeros int
	for _, sample := range day.Samples {
		sum += float64(sample.Activity)
		if sample.Activity == 0 {
			zeros++
		}
		if sample.Activity > features.Peak {
			features.Peak = sample.Activity
		}
	}
	features.Mean = sum / float64(n)
	features.ZeroProportion = float64(zeros) / float64(n)

	// Sample standard deviation needs at least two observations
	if n > 1 {
		var squares float64
		for _, sample := range day.Samples {
			diff := float64(sample.Activity) - features.Mean
			squares += diff * diff
		}
		features.StdDev = math.Sqrt(squares / float64(n-1))
	}

	return features, nil
}

// SeriesFeatures computes per-day features for a whole series, dropping days
// shorter than minSamples.
func SeriesFeatures(series *Series, minSamples int) ([]DayFeatures, error) {
	days := FilterDays(SplitDays(series), minSamples)

	features := make([]DayFeatures, 0, len(days))
	for i := range days {
		f, err := Features(&days[i])
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}

	return features, nil
}

// MeanDailyActivity averages the per-day mean activity over a feature set.
// It returns false for an empty set.
func MeanDailyActivity(features []DayFeatures) (float64, bool) {
	if len(features) == 0 {
		return 0, false
	}

	var sum float64
	for i := range features {
		sum += features[i].Mean
	}
	return sum / float64(len(features)), true
}
