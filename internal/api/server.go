// Package api provides the HTTP results server for sortbench.
// It exposes Prometheus metrics, the most recent benchmark report and the
// state of scheduled re-runs.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anstrom/sortbench/internal/api/middleware"
	"github.com/anstrom/sortbench/internal/bench"
	"github.com/anstrom/sortbench/internal/config"
	"github.com/anstrom/sortbench/internal/errors"
	"github.com/anstrom/sortbench/internal/logging"
	"github.com/anstrom/sortbench/internal/metrics"
	"github.com/anstrom/sortbench/internal/scheduler"
)

// ResultsProvider runs benchmarks and holds the most recent report.
// *bench.Runner satisfies it.
type ResultsProvider interface {
	Last() *bench.Report
	Run(ctx context.Context) (*bench.Report, error)
}

// JobLister reports scheduled jobs. *scheduler.Scheduler satisfies it.
type JobLister interface {
	GetJobs() []scheduler.ScheduledJob
}

// Server represents the results server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	config     *config.Config
	results    ResultsProvider
	jobs       JobLister
	metrics    *metrics.PrometheusMetrics
	logger     *logging.Logger
	version    string
}

// New creates a new results server. jobs may be nil when no schedule is
// configured.
func New(
	cfg *config.Config,
	results ResultsProvider,
	pm *metrics.PrometheusMetrics,
	jobs JobLister,
	version string,
	logger *logging.Logger,
) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if results == nil {
		return nil, fmt.Errorf("results provider is required")
	}
	if pm == nil {
		pm = metrics.GetGlobalMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}

	server := &Server{
		router:    mux.NewRouter(),
		config:    cfg,
		results:   results,
		jobs:      jobs,
		metrics:   pm,
		logger:    logger.WithComponent("api"),
		version:   version,
	}

	server.setupMiddleware()
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.InfoServer("Starting results server",
		"address", s.httpServer.Addr,
		"read_timeout", s.httpServer.ReadTimeout,
		"write_timeout", s.httpServer.WriteTimeout)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("results server failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errChan:
		return err
	}
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	s.logger.InfoServer("Stopping results server")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.ErrorServer("Results server shutdown error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.InfoServer("Results server stopped")
	return nil
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.GetRegistry(), promhttp.HandlerOpts{})).
		Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/version", s.versionHandler).Methods(http.MethodGet)
	api.HandleFunc("/results", s.resultsHandler).Methods(http.MethodGet)
	api.HandleFunc("/runs", s.runHandler).Methods(http.MethodPost)
	api.HandleFunc("/schedules", s.schedulesHandler).Methods(http.MethodGet)

	s.router.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logging(s.logger))
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.Metrics(s.metrics))
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
	))
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() *mux.Router {
	return s.router
}

// GetAddress returns the server address.
func (s *Server) GetAddress() string {
	return s.httpServer.Addr
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"service": "sortbench",
		"version": s.version,
		"endpoints": map[string]string{
			"metrics":   "/metrics",
			"health":    "/api/v1/health",
			"version":   "/api/v1/version",
			"results":   "/api/v1/results",
			"runs":      "/api/v1/runs",
			"schedules": "/api/v1/schedules",
		},
		"timestamp": time.Now().UTC(),
	}

	s.WriteJSON(w, r, http.StatusOK, response)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.metrics.UpdateSystemMetrics()

	status := "healthy"
	checks := map[string]string{"benchmark": "pending"}
	if last := s.results.Last(); last != nil {
		checks["benchmark"] = "ok"
		if last.Failures > 0 {
			status = "degraded"
			checks["benchmark"] = fmt.Sprintf("%d verification failures", last.Failures)
		}
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"uptime":    s.metrics.GetUptime().String(),
		"checks":    checks,
	}

	s.WriteJSON(w, r, http.StatusOK, response)
}

func (s *Server) versionHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"version":   s.version,
		"timestamp": time.Now().UTC(),
		"service":   "sortbench",
	}

	s.WriteJSON(w, r, http.StatusOK, response)
}

func (s *Server) resultsHandler(w http.ResponseWriter, r *http.Request) {
	last := s.results.Last()
	if last == nil {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("no benchmark has completed yet"))
		return
	}

	s.WriteJSON(w, r, http.StatusOK, last)
}

// runHandler executes a benchmark synchronously and returns its report.
func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) {
	rep, err := s.results.Run(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if r.Context().Err() != nil {
			status = http.StatusServiceUnavailable
		}
		s.writeError(w, r, status, err)
		return
	}

	s.WriteJSON(w, r, http.StatusCreated, rep)
}

func (s *Server) schedulesHandler(w http.ResponseWriter, r *http.Request) {
	jobs := []scheduler.ScheduledJob{}
	if s.jobs != nil {
		jobs = s.jobs.GetJobs()
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })

	s.WriteJSON(w, r, http.StatusOK, map[string]interface{}{
		"schedules": jobs,
		"count":     len(jobs),
	})
}

// ErrorResponse represents a standard API error response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	if statusCode >= http.StatusInternalServerError {
		s.logger.ErrorServer("API error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"status", statusCode)
	}

	response := ErrorResponse{
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(r),
	}
	code := errors.GetCode(err)
	if code == errors.CodeUnknown && statusCode == http.StatusServiceUnavailable {
		code = errors.CodeServiceUnavailable
	}
	if code != errors.CodeUnknown {
		response.Code = string(code)
	}

	s.WriteJSON(w, r, statusCode, response)
}

// WriteJSON writes a JSON response.
func (s *Server) WriteJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response",
			"error", err,
			"path", r.URL.Path,
			"method", r.Method)
	}
}
