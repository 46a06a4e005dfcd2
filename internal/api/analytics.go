// internal/api/analytics.go
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ng-daniel/depresjon-go/internal/datastore"
)

// initAnalyticsRoutes registers the aggregate analytics endpoints.
func (c *Controller) initAnalyticsRoutes() {
	analyticsGroup := c.Group.Group("/analytics")
	analyticsGroup.GET("/cohort", c.GetCohortSummary)
	analyticsGroup.GET("/activity", c.GetActivityByDate)
}

// CohortGroupResponse is one study arm of the cohort summary.
type CohortGroupResponse struct {
	Group              string  `json:"group"`
	SubjectCount       int     `json:"subject_count"`
	DayCount           int     `json:"day_count"`
	MeanActivity       float64 `json:"mean_activity"`
	MeanZeroProportion float64 `json:"mean_zero_proportion"`
}

// DailyActivityResponse is one calendar date of the cross-subject activity
// aggregate.
type DailyActivityResponse struct {
	Date         string  `json:"date"`
	SubjectCount int     `json:"subject_count"`
	MeanActivity float64 `json:"mean_activity"`
	PeakActivity int     `json:"peak_activity"`
}

// GetCohortSummary handles GET /api/v1/analytics/cohort. Results are cached
// since the aggregate scans every activity day.
func (c *Controller) GetCohortSummary(ctx echo.Context) error {
	const cacheKey = "analytics:cohort"

	if cached, found := c.analyticsCache.Get(cacheKey); found {
		return ctx.JSON(http.StatusOK, cached)
	}

	groups, err := c.DS.GroupActivitySummary()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get cohort summary", http.StatusInternalServerError)
	}

	responses := make([]CohortGroupResponse, 0, len(groups))
	for i := range groups {
		responses = append(responses, CohortGroupResponse{
			Group:              groups[i].StudyGroup,
			SubjectCount:       groups[i].SubjectCount,
			DayCount:           groups[i].DayCount,
			MeanActivity:       groups[i].MeanActivity,
			MeanZeroProportion: groups[i].MeanZeroProportion,
		})
	}

	c.analyticsCache.Set(cacheKey, responses, 5*time.Minute)
	c.logAPIRequest(ctx, slog.LevelDebug, "Computed cohort summary", "groups", len(responses))
	return ctx.JSON(http.StatusOK, responses)
}

// GetActivityByDate handles GET /api/v1/analytics/activity with optional
// start_date and end_date query parameters (YYYY-MM-DD, inclusive).
func (c *Controller) GetActivityByDate(ctx echo.Context) error {
	startDate := ctx.QueryParam("start_date")
	endDate := ctx.QueryParam("end_date")

	for _, date := range []string{startDate, endDate} {
		if date == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return c.HandleError(ctx, err, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		}
	}
	if startDate != "" && endDate != "" && startDate > endDate {
		return c.HandleError(ctx, nil, "start_date must not be after end_date", http.StatusBadRequest)
	}

	cacheKey := fmt.Sprintf("analytics:activity:%s:%s", startDate, endDate)
	if cached, found := c.analyticsCache.Get(cacheKey); found {
		return ctx.JSON(http.StatusOK, cached)
	}

	analytics, err := c.DS.ActivityByDate(startDate, endDate)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get activity analytics", http.StatusInternalServerError)
	}

	responses := make([]DailyActivityResponse, 0, len(analytics))
	for i := range analytics {
		responses = append(responses, dailyActivityResponse(&analytics[i]))
	}

	c.analyticsCache.Set(cacheKey, responses, 5*time.Minute)
	return ctx.JSON(http.StatusOK, responses)
}

func dailyActivityResponse(d *datastore.DailyActivity) DailyActivityResponse {
	return DailyActivityResponse{
		Date:         d.Date,
		SubjectCount: d.SubjectCount,
		MeanActivity: d.MeanActivity,
		PeakActivity: d.PeakActivity,
	}
}
