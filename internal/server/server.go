// Package server is a reference implementation of the project service REST
// API. It backs the serve command and the store integration tests.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectctl/internal/logging"
	"github.com/fyrsmithlabs/projectctl/internal/normalize"
	"github.com/fyrsmithlabs/projectctl/internal/project"
	"github.com/fyrsmithlabs/projectctl/internal/telemetry"
)

// Server provides the project service endpoints.
type Server struct {
	echo    *echo.Echo
	repo    Repository
	logger  *logging.Logger
	config  *Config
	metrics *storeMetrics
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// Telemetry provides the meter for HTTP metrics. Nil uses the otel globals.
	Telemetry *telemetry.Telemetry
}

// NewServer creates a new project service.
func NewServer(repo Repository, logger *logging.Logger, cfg *Config) (*Server, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 3001,
		}
	}
	logger = logger.Named("server")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(newHTTPMetrics(cfg.Telemetry.Meter(instrumentationName), logger).middleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logging.WithRequestID(c.Request().Context(), requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info(ctx, "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)

			return nil
		}
	})

	reg := prometheus.NewRegistry()
	s := &Server{
		echo:    e,
		repo:    repo,
		logger:  logger,
		config:  cfg,
		metrics: newStoreMetrics(reg),
	}

	s.registerRoutes(reg)

	return s, nil
}

func (s *Server) registerRoutes(reg *prometheus.Registry) {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	s.echo.GET("/api/projects/", s.handleList)
	s.echo.POST("/api/project/", s.handleCreate)
	s.echo.DELETE("/api/project/id/:id", s.handleDelete)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleList(c echo.Context) error {
	projects, err := s.repo.List(c.Request().Context())
	if err != nil {
		s.logger.Error(c.Request().Context(), "list failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list projects")
	}
	return c.JSON(http.StatusOK, projects)
}

// handleCreate stores the form fields name, description, startDate and
// endDate and answers with the stored record.
func (s *Server) handleCreate(c echo.Context) error {
	ctx := c.Request().Context()

	p := project.Project{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: normalize.Multiline(c.FormValue("description")),
		StartDate:   strings.TrimSpace(c.FormValue("startDate")),
		EndDate:     strings.TrimSpace(c.FormValue("endDate")),
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.metrics.mutations.WithLabelValues("create", "rejected").Inc()
		s.logger.Warn(ctx, "invalid project", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.metrics.mutations.WithLabelValues("create", "ok").Inc()
	s.metrics.stored.Inc()

	s.logger.Debug(logging.WithProjectID(ctx, created.ID.String()), "project stored")
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleDelete(c echo.Context) error {
	id := project.ID(c.Param("id"))
	ctx := logging.WithProjectID(c.Request().Context(), id.String())

	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, ErrProjectNotFound):
		s.metrics.mutations.WithLabelValues("delete", "not_found").Inc()
		return echo.NewHTTPError(http.StatusNotFound, "project not found")
	case err != nil:
		s.metrics.mutations.WithLabelValues("delete", "rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.metrics.mutations.WithLabelValues("delete", "ok").Inc()
	s.metrics.stored.Dec()

	s.logger.Debug(ctx, "project deleted")
	return c.NoContent(http.StatusNoContent)
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
