// internal/api/server.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/datastore"
	"github.com/ng-daniel/depresjon-go/internal/logging"
	"github.com/ng-daniel/depresjon-go/internal/observability"
)

// Server wraps the Echo instance serving the JSON API and, when enabled,
// the Prometheus metrics endpoint.
type Server struct {
	Echo       *echo.Echo
	Settings   *conf.Settings
	DS         datastore.Interface
	Controller *Controller

	metrics *observability.Metrics
	log     *slog.Logger
}

// NewServer creates an Echo instance with middleware and all API routes
// registered.
func NewServer(settings *conf.Settings, ds datastore.Interface, metrics *observability.Metrics) *Server {
	e := echo.New()
	e.HideBanner = true

	s := &Server{
		Echo:     e,
		Settings: settings,
		DS:       ds,
		metrics:  metrics,
		log:      logging.ForService("webserver"),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	if metrics != nil && metrics.HTTP != nil {
		e.Use(s.metricsMiddleware())
	}

	s.Controller = New(e, ds, settings, nil, metrics)

	e.GET("/healthz", s.Controller.HealthCheck)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	return s
}

// metricsMiddleware records request counts and latencies per route.
func (s *Server) metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			// Use the route pattern, not the raw path, to bound cardinality
			s.metrics.HTTP.RecordRequest(c.Request().Method, c.Path(), strconv.Itoa(status), time.Since(start).Seconds())
			return err
		}
	}
}

// Start runs the HTTP server in a goroutine and shuts it down gracefully
// when the quit channel closes.
func (s *Server) Start(wg *sync.WaitGroup, quitChan <-chan struct{}) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if s.log != nil {
			s.log.Info("HTTP server starting", "port", s.Settings.WebServer.Port)
		}
		if err := s.Echo.Start(":" + s.Settings.WebServer.Port); err != nil && err != http.ErrServerClosed {
			if s.log != nil {
				s.log.Error("HTTP server error", "error", err)
			}
		}
	}()

	go s.gracefulShutdown(quitChan)
}

// gracefulShutdown waits for the quit signal and stops the server.
func (s *Server) gracefulShutdown(quitChan <-chan struct{}) {
	<-quitChan
	if s.log != nil {
		s.log.Info("Stopping HTTP server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Echo.Shutdown(ctx); err != nil {
		if s.log != nil {
			s.log.Error("HTTP server shutdown error", "error", err)
		}
	}

	if err := s.Controller.Close(); err != nil {
		if s.log != nil {
			s.log.Error("Closing API log writer failed", "error", err)
		}
	}
}
