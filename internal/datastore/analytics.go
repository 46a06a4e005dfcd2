// internal/datastore/analytics.go
package datastore

import (
	"fmt"
	"time"
)

// DailyActivity aggregates activity across subjects for one calendar date.
type DailyActivity struct {
	Date         string
	SubjectCount int
	MeanActivity float64
	PeakActivity int
}

// GroupActivity aggregates activity per study group.
type GroupActivity struct {
	StudyGroup         string
	SubjectCount       int
	DayCount           int
	MeanActivity       float64
	MeanZeroProportion float64
}

// ActivityByDate retrieves per-date activity aggregates across all subjects,
// optionally bounded by an inclusive date range.
func (ds *DataStore) ActivityByDate(startDate, endDate string) (result []DailyActivity, err error) {
	start := time.Now()
	defer func() { ds.recordOperation("activity_by_date", start, err) }()

	var analytics []DailyActivity

	query := ds.DB.Table("activity_days").
		Select("date, COUNT(DISTINCT subject_id) as subject_count, AVG(mean_activity) as mean_activity, MAX(peak_activity) as peak_activity").
		Group("date").
		Order("date")

	if startDate != "" {
		query = query.Where("date >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("date <= ?", endDate)
	}

	if err := query.Scan(&analytics).Error; err != nil {
		return nil, fmt.Errorf("error getting activity by date: %w", err)
	}

	return analytics, nil
}

// GroupActivitySummary retrieves activity aggregates per study group.
func (ds *DataStore) GroupActivitySummary() (result []GroupActivity, err error) {
	start := time.Now()
	defer func() { ds.recordOperation("group_activity_summary", start, err) }()

	var analytics []GroupActivity

	query := `
		SELECT
			subjects.study_group as study_group,
			COUNT(DISTINCT subjects.id) as subject_count,
			COUNT(activity_days.id) as day_count,
			AVG(activity_days.mean_activity) as mean_activity,
			AVG(activity_days.zero_proportion) as mean_zero_proportion
		FROM activity_days
		JOIN subjects ON subjects.id = activity_days.subject_id
		GROUP BY subjects.study_group
		ORDER BY subjects.study_group
	`

	if err := ds.DB.Raw(query).Scan(&analytics).Error; err != nil {
		return nil, fmt.Errorf("error getting group activity summary: %w", err)
	}

	return analytics, nil
}
