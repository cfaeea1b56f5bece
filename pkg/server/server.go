// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness probe
//	POST /v1/layout          diagram document -> compiled diagram JSON
//	POST /v1/render          diagram document -> rendered artifact
//	POST /v1/markdown        markdown page    -> one SVG (or error panel) per block
//
// Request bodies are diagram documents in JSON or YAML, exactly as they would
// appear inside a fenced block. Render options travel as query parameters
// (format, theme, legend, scale, strategy, refresh) and fall back to the
// server's configured defaults.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/schematic/pkg/config"
	"github.com/matzehuels/schematic/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown once the serve context ends.
const shutdownTimeout = 10 * time.Second

// Server serves the pipeline API. Create one with [New].
type Server struct {
	runner   *pipeline.Runner
	cfg      config.ServerConfig
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New builds a server around runner. Layout and render defaults come from cfg
// and can be overridden per request.
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		cfg:    cfg.Server,
		defaults: pipeline.Options{
			Strategy: cfg.Layout.Strategy,
			Layout:   cfg.LayoutOptions(),
			Theme:    cfg.Render.Theme,
			Legend:   cfg.Render.Legend,
			Scale:    cfg.Render.Scale,
			Logger:   logger,
		},
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(s.recoverer)
	if s.cfg.Timeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/markdown", s.handleMarkdown)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
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
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
