// Package server exposes the gang sheet pipeline over HTTP.
//
// # Endpoints
//
//	GET  /          plain-text liveness message
//	GET  /healthz   JSON health and build version
//	GET  /presets   JSON list of sheet presets
//	POST /merge     multipart upload → rendered gang sheet (PDF by default)
//	POST /plan      multipart upload → JSON placement plan
//	GET  /metrics   Prometheus metrics (when enabled)
//
// Both upload endpoints read the artwork from the "file" form field plus
// optional fields: quantity (default 1), rotate, preset, sheet_width,
// sheet_height, margin, gap, density, page, cut_marks, title and, for /merge,
// format (pdf, png, svg, json) and sheet (1-based PNG sheet to return).
//
// Errors are JSON bodies of the form {"code": "...", "error": "..."} with
// the status from [errors.HTTPStatus].
//
// [errors.HTTPStatus]: github.com/matzehuels/gangsheet/pkg/errors.HTTPStatus
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/gangsheet/pkg/pipeline"
)

// Defaults for Config.
const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 64 << 20
	shutdownTimeout       = 10 * time.Second
)

// Config configures the HTTP service.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	AllowedOrigins []string

	// Metrics serves the registry at /metrics when non-nil.
	Metrics *prometheus.Registry
}

// Server serves the gang sheet API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New builds the router. runner is shared across requests.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{runner: runner, logger: logger, cfg: cfg}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", middleware.RequestIDHeader, headerSheets, headerPlacements},
		MaxAge:         300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Get("/presets", s.handlePresets)
	r.Post("/merge", s.handleMerge)
	r.Post("/plan", s.handlePlan)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Metrics, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
