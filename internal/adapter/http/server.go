package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/hurricane-viewer/internal/domain"
	"github.com/couchcryptid/hurricane-viewer/internal/viewer"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Viewer computes the views served over HTTP.
type Viewer interface {
	sharedobs.ReadinessChecker
	Options() (domain.FilterOptions, error)
	Records(sel viewer.Selection) (domain.Filter, []domain.Record, []string, error)
	Page(sel viewer.Selection) viewer.Page
	Storm(sel viewer.Selection, name string) (domain.StormDetail, domain.MapView, error)
	RenderMap(ctx context.Context, sel viewer.Selection) ([]byte, domain.MapView, error)
}

// Server exposes the HTML viewer, the JSON API, and health, readiness and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	viewer     Viewer
	logger     *slog.Logger
}

// NewServer creates an HTTP server routing to v.
func NewServer(addr string, v Viewer, logger *slog.Logger) *Server {
	s := &Server{
		viewer: v,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(v))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handlePage)
	r.Get("/map.png", s.handleMapImage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Get("/records", s.handleRecords)
		r.Get("/storms", s.handleStorms)
		r.Get("/storms/{name}", s.handleStorm)
		r.Get("/storms/{name}/map", s.handleStormMap)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// requestLogger logs one line per request with its chi request ID.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
