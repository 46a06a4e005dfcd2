// internal/api/evaluations.go
package api

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ng-daniel/depresjon-go/internal/datastore"
	"github.com/ng-daniel/depresjon-go/internal/evaluation"
)

// initEvaluationRoutes registers the stored evaluation run endpoints.
func (c *Controller) initEvaluationRoutes() {
	c.Group.GET("/evaluations", c.GetEvaluations)
	c.Group.GET("/evaluations/:id", c.GetEvaluation)
	c.Group.POST("/evaluations", c.CreateEvaluation)
}

// EvaluationRunResponse is the JSON form of one stored evaluation run.
// Folds is only populated when a single run is requested.
type EvaluationRunResponse struct {
	RunID      string              `json:"run_id"`
	Model      string              `json:"model"`
	Note       string              `json:"note,omitempty"`
	SourceNode string              `json:"source_node,omitempty"`
	CreatedAt  string              `json:"created_at"`
	Folds      []FoldScoreResponse `json:"folds,omitempty"`
}

// FoldScoreResponse is one evaluation row of a stored run. NaN metrics are
// rendered as null since JSON has no NaN.
type FoldScoreResponse struct {
	Note       string   `json:"note"`
	Loss       *float64 `json:"loss"`
	Accuracy   *float64 `json:"accuracy"`
	Precision0 *float64 `json:"precision_control"`
	Precision1 *float64 `json:"precision_condition"`
	Recall0    *float64 `json:"recall_control"`
	Recall1    *float64 `json:"recall_condition"`
	F1Score0   *float64 `json:"f1_control"`
	F1Score1   *float64 `json:"f1_condition"`
	Support0   int      `json:"support_control"`
	Support1   int      `json:"support_condition"`
	MCC        *float64 `json:"mcc"`
}

// jsonFloat maps NaN to a nil pointer for JSON output.
func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func evaluationRunResponse(run *datastore.EvaluationRun, includeFolds bool) EvaluationRunResponse {
	resp := EvaluationRunResponse{
		RunID:      run.RunID,
		Model:      run.Model,
		Note:       run.Note,
		SourceNode: run.SourceNode,
		CreatedAt:  run.CreatedAt.Format(time.RFC3339),
	}

	if includeFolds {
		resp.Folds = make([]FoldScoreResponse, 0, len(run.Folds))
		for i := range run.Folds {
			fold := &run.Folds[i]
			// Per-class columns are stored nullable, so they carry over directly
			resp.Folds = append(resp.Folds, FoldScoreResponse{
				Note:       fold.Note,
				Loss:       jsonFloat(fold.Loss),
				Accuracy:   jsonFloat(fold.Accuracy),
				Precision0: fold.Precision0,
				Precision1: fold.Precision1,
				Recall0:    fold.Recall0,
				Recall1:    fold.Recall1,
				F1Score0:   fold.F1Score0,
				F1Score1:   fold.F1Score1,
				Support0:   fold.Support0,
				Support1:   fold.Support1,
				MCC:        jsonFloat(fold.MCC),
			})
		}
	}

	return resp
}

// PredictionRequest is one classified subject in a submitted evaluation.
// Actual and Predicted use the study labels: 0 control, 1 condition. Score is
// the predicted probability of the condition class.
type PredictionRequest struct {
	Subject   string  `json:"subject"`
	Fold      int     `json:"fold"`
	Actual    int     `json:"actual"`
	Predicted int     `json:"predicted"`
	Score     float64 `json:"score"`
}

// CreateEvaluationRequest is the body of POST /api/v1/evaluations.
type CreateEvaluationRequest struct {
	Model       string              `json:"model"`
	Note        string              `json:"note,omitempty"`
	Predictions []PredictionRequest `json:"predictions"`
}

// CreateEvaluation handles POST /api/v1/evaluations: it scores the submitted
// per-fold predictions, stores the resulting run and returns it with fold rows.
func (c *Controller) CreateEvaluation(ctx echo.Context) error {
	start := time.Now()

	var req CreateEvaluationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Model == "" {
		return c.HandleError(ctx, errors.New("missing model name"), "Model name is required", http.StatusBadRequest)
	}
	if len(req.Predictions) == 0 {
		return c.HandleError(ctx, errors.New("no predictions"), "At least one prediction is required", http.StatusBadRequest)
	}

	preds := make([]evaluation.Prediction, 0, len(req.Predictions))
	for i := range req.Predictions {
		p := &req.Predictions[i]
		preds = append(preds, evaluation.Prediction{
			Subject:   p.Subject,
			Fold:      p.Fold,
			Actual:    evaluation.Class(p.Actual),
			Predicted: evaluation.Class(p.Predicted),
			Score:     p.Score,
		})
	}

	epsilon := c.Settings.Evaluation.Epsilon
	if epsilon <= 0 {
		epsilon = evaluation.DefaultEpsilon
	}

	run, err := evaluation.EvaluateFolds(req.Model, preds, epsilon)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to evaluate predictions", http.StatusBadRequest)
	}

	stored, folds := datastore.NewEvaluationRun(&run, req.Note, c.Settings.Main.Name)
	if err := c.DS.SaveEvaluation(&stored, folds); err != nil {
		return c.HandleError(ctx, err, "Failed to store evaluation run", http.StatusInternalServerError)
	}

	if c.metrics != nil && c.metrics.Evaluation != nil {
		c.metrics.Evaluation.RecordRun(req.Model, len(folds), time.Since(start).Seconds())
	}

	saved, err := c.DS.GetEvaluation(stored.RunID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to load stored evaluation run", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusCreated, evaluationRunResponse(&saved, true))
}

// GetEvaluations handles GET /api/v1/evaluations, newest first.
func (c *Controller) GetEvaluations(ctx echo.Context) error {
	runs, err := c.DS.ListEvaluations()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list evaluation runs", http.StatusInternalServerError)
	}

	responses := make([]EvaluationRunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, evaluationRunResponse(&runs[i], false))
	}

	return ctx.JSON(http.StatusOK, responses)
}

// GetEvaluation handles GET /api/v1/evaluations/:id including fold rows.
func (c *Controller) GetEvaluation(ctx echo.Context) error {
	runID := ctx.Param("id")

	run, err := c.DS.GetEvaluation(runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.HandleError(ctx, err, "Evaluation run not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get evaluation run", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, evaluationRunResponse(&run, true))
}
