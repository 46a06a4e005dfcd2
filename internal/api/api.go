// Package api implements the JSON API for browsing stored subjects, activity
// analytics and evaluation runs.
package api

import (
	"crypto/rand"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/datastore"
	"github.com/ng-daniel/depresjon-go/internal/logging"
	"github.com/ng-daniel/depresjon-go/internal/observability"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	DS       datastore.Interface
	Settings *conf.Settings

	logger         *log.Logger
	apiLogger      *slog.Logger
	apiLoggerClose func() error
	analyticsCache *cache.Cache // cache for cohort and activity aggregates
	metrics        *observability.Metrics
	startTime      time.Time
}

// New creates an API controller and registers its routes under /api/v1.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	logger *log.Logger, metrics *observability.Metrics) *Controller {
	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		Echo:           e,
		DS:             ds,
		Settings:       settings,
		logger:         logger,
		apiLogger:      logging.ForService("api"),
		analyticsCache: cache.New(5*time.Minute, 10*time.Minute),
		metrics:        metrics,
		startTime:      time.Now(),
	}

	// Route API logs to the configured web server log file when enabled,
	// falling back to the shared structured logger
	if settings.WebServer.Log.Enabled && settings.WebServer.Log.Path != "" {
		fileLogger, closeFunc, err := logging.NewFileLogger(settings.WebServer.Log.Path, "api", slog.LevelInfo, settings.WebServer.Log)
		if err != nil {
			logger.Printf("Failed to open web server log file %s: %v", settings.WebServer.Log.Path, err)
		} else {
			c.apiLogger = fileLogger
			c.apiLoggerClose = closeFunc
		}
	}

	c.Group = e.Group("/api/v1")
	c.initRoutes()

	return c
}

// Close releases the controller's file-backed logger, if one was opened.
func (c *Controller) Close() error {
	if c.apiLoggerClose == nil {
		return nil
	}
	return c.apiLoggerClose()
}

// initRoutes registers all API endpoints.
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.HealthCheck)

	routeInitializers := []struct {
		name string
		fn   func()
	}{
		{"subject routes", c.initSubjectRoutes},
		{"analytics routes", c.initAnalyticsRoutes},
		{"evaluation routes", c.initEvaluationRoutes},
	}

	for _, initializer := range routeInitializers {
		c.Debug("Initializing %s...", initializer.name)
		initializer.fn()
	}
}

// HealthCheck handles the API health check endpoint.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	response := map[string]any{
		"status":    "healthy",
		"version":   c.Settings.Version,
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime_s":  int(time.Since(c.startTime).Seconds()),
	}

	dbStatus := "connected"
	if _, err := c.DS.CountSubjects(); err != nil {
		dbStatus = "disconnected"
		response["database_error"] = err.Error()
		response["status"] = "degraded"
	}
	response["database_status"] = dbStatus

	return ctx.JSON(http.StatusOK, response)
}

// ErrorResponse is the JSON body returned for failed API requests.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"` // Unique identifier for tracking this error
}

// NewErrorResponse creates a new API error response.
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: generateCorrelationID(),
	}
}

// generateCorrelationID creates a unique identifier for error tracking.
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError constructs and returns an appropriate error response.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	c.logger.Printf("API Error [%s]: %s: %v", errorResp.CorrelationID, message, err)

	if c.apiLogger != nil {
		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"message", message,
			"error", errorResp.Error,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ctx.RealIP(),
		)
	}

	return ctx.JSON(code, errorResp)
}

// Debug logs debug messages when web server debug mode is enabled.
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.WebServer.Debug {
		msg := fmt.Sprintf(format, v...)
		c.logger.Printf("[DEBUG] %s", msg)
		if c.apiLogger != nil {
			c.apiLogger.Debug(msg)
		}
	}
}

// logAPIRequest is a helper to log API requests with common context fields.
func (c *Controller) logAPIRequest(ctx echo.Context, level slog.Level, msg string, args ...any) {
	if c.apiLogger == nil {
		return
	}

	baseAttrs := []any{
		"path", ctx.Request().URL.Path,
		"ip", ctx.RealIP(),
	}
	baseAttrs = append(baseAttrs, args...)

	c.apiLogger.Log(ctx.Request().Context(), level, msg, baseAttrs...)
}
