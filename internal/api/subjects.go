// internal/api/subjects.go
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ng-daniel/depresjon-go/internal/datastore"
	"github.com/ng-daniel/depresjon-go/internal/scores"
)

// initSubjectRoutes registers the subject browsing endpoints.
func (c *Controller) initSubjectRoutes() {
	c.Group.GET("/subjects", c.GetSubjects)
	c.Group.GET("/subjects/:number", c.GetSubject)
	c.Group.GET("/subjects/:number/days", c.GetSubjectDays)
}

// SubjectResponse is the JSON form of one study participant. Coded fields
// carry both the raw code and its label; clinical fields are omitted for
// control subjects.
type SubjectResponse struct {
	Number      string   `json:"number"`
	Group       string   `json:"group"`
	Days        int      `json:"days"`
	Gender      int      `json:"gender"`
	GenderLabel string   `json:"gender_label"`
	Age         string   `json:"age"`
	AffType     int      `json:"afftype,omitempty"`
	AffLabel    string   `json:"afftype_label,omitempty"`
	Melancholia int      `json:"melanch,omitempty"`
	CareSetting int      `json:"inpatient,omitempty"`
	Education   string   `json:"edu,omitempty"`
	Marriage    int      `json:"marriage,omitempty"`
	Work        int      `json:"work,omitempty"`
	MADRS1      *float64 `json:"madrs1,omitempty"`
	MADRS2      *float64 `json:"madrs2,omitempty"`
}

// ActivityDayResponse is the JSON form of one day of activity features.
type ActivityDayResponse struct {
	Date           string  `json:"date"`
	SampleCount    int     `json:"sample_count"`
	MeanActivity   float64 `json:"mean_activity"`
	StdDev         float64 `json:"std_dev"`
	ZeroProportion float64 `json:"zero_proportion"`
	PeakActivity   int     `json:"peak_activity"`
}

// subjectResponse converts a stored subject to its JSON form.
func subjectResponse(s *datastore.Subject) SubjectResponse {
	record := s.ToRecord()
	resp := SubjectResponse{
		Number:      record.Number,
		Group:       string(record.Group),
		Days:        record.Days,
		Gender:      int(record.Gender),
		GenderLabel: record.Gender.String(),
		Age:         record.Age,
	}

	if record.Group == scores.GroupCondition {
		resp.AffType = int(record.AffType)
		resp.AffLabel = record.AffType.String()
		resp.Melancholia = int(record.Melancholia)
		resp.CareSetting = int(record.CareSetting)
		resp.Education = record.Education
		resp.Marriage = int(record.Marriage)
		resp.Work = int(record.Work)
		resp.MADRS1 = record.MADRS1
		resp.MADRS2 = record.MADRS2
	}

	return resp
}

// GetSubjects handles GET /api/v1/subjects with an optional group filter.
func (c *Controller) GetSubjects(ctx echo.Context) error {
	group := ctx.QueryParam("group")
	if group != "" && !scores.Group(group).Valid() {
		return c.HandleError(ctx, nil, "Invalid group, must be condition or control", http.StatusBadRequest)
	}

	subjects, err := c.DS.ListSubjects(group)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list subjects", http.StatusInternalServerError)
	}

	responses := make([]SubjectResponse, 0, len(subjects))
	for i := range subjects {
		responses = append(responses, subjectResponse(&subjects[i]))
	}

	c.logAPIRequest(ctx, slog.LevelDebug, "Listed subjects", "count", len(responses), "group", group)
	return ctx.JSON(http.StatusOK, responses)
}

// GetSubject handles GET /api/v1/subjects/:number.
func (c *Controller) GetSubject(ctx echo.Context) error {
	number := ctx.Param("number")

	subject, err := c.DS.GetSubject(number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.HandleError(ctx, err, "Subject not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get subject", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, subjectResponse(&subject))
}

// GetSubjectDays handles GET /api/v1/subjects/:number/days.
func (c *Controller) GetSubjectDays(ctx echo.Context) error {
	number := ctx.Param("number")

	days, err := c.DS.DailyFeatures(number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.HandleError(ctx, err, "Subject not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get activity days", http.StatusInternalServerError)
	}

	responses := make([]ActivityDayResponse, 0, len(days))
	for i := range days {
		responses = append(responses, ActivityDayResponse{
			Date:           days[i].Date,
			SampleCount:    days[i].SampleCount,
			MeanActivity:   days[i].MeanActivity,
			StdDev:         days[i].StdDev,
			ZeroProportion: days[i].ZeroProportion,
			PeakActivity:   days[i].PeakActivity,
		})
	}

	c.logAPIRequest(ctx, slog.LevelDebug, "Listed activity days", "subject", number, "count", len(responses))
	return ctx.JSON(http.StatusOK, responses)
}
