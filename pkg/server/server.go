// Package server exposes the border calculator over HTTP.
//
// The router is built with chi. Every response body is JSON except the
// preview endpoint, which returns the rendered artifact. Errors share one
// envelope:
//
//	{"error": {"code": "INVALID_PRESET", "message": "..."}}
//
// where code is an [errors.Code] and the HTTP status is derived from it.
//
// # Routes
//
//	GET    /healthz
//	GET    /api/v1/tables
//	POST   /api/v1/border
//	GET    /api/v1/border/optimal        (feature: optimal_border)
//	POST   /api/v1/preview               (feature: preview)
//	POST   /api/v1/presets/encode
//	GET    /api/v1/presets/decode/{code}
//	POST   /api/v1/presets               (feature: preset_sharing)
//	GET    /api/v1/presets               (feature: preset_sharing)
//	GET    /api/v1/presets/{id}          (feature: preset_sharing)
//	PUT    /api/v1/presets/{id}          (feature: preset_sharing)
//	DELETE /api/v1/presets/{id}          (feature: preset_sharing)
//	POST   /api/v1/exposure/stops        (feature: exposure)
//	POST   /api/v1/exposure/resize       (feature: exposure)
//	POST   /api/v1/exposure/reciprocity  (feature: exposure)
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/darkroom/pkg/config"
	"github.com/matzehuels/darkroom/pkg/pipeline"
	"github.com/matzehuels/darkroom/pkg/preset"
)

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    preset.Store
	features config.Features
	cfg      config.ServerConfig
	logger   *log.Logger
	router   chi.Router
}

// New builds a server. A nil runner gets pipeline defaults, a nil store an
// in-memory one.
func New(runner *pipeline.Runner, store preset.Store, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil, logger)
	}
	if store == nil {
		store = preset.NewMemoryStore()
	}
	s := &Server{
		runner:   runner,
		store:    store,
		features: cfg.Features,
		cfg:      cfg.Server,
		logger:   logger.WithPrefix("http"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLog)
	r.Use(httpHooks)
	r.Use(middleware.Recoverer)
	if s.cfg.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(s.cfg.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("METHOD_NOT_ALLOWED", r.Method+" not allowed"))
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tables", s.handleTables)

		r.Post("/border", s.handleBorder)
		r.With(s.requireFeature(config.FeatureOptimalBorder)).Get("/border/optimal", s.handleOptimal)
		r.With(s.requireFeature(config.FeaturePreview)).Post("/preview", s.handlePreview)

		r.Route("/presets", func(r chi.Router) {
			r.Post("/encode", s.handleEncode)
			r.Get("/decode/{code}", s.handleDecode)

			r.Group(func(r chi.Router) {
				r.Use(s.requireFeature(config.FeaturePresetSharing))
				r.Post("/", s.handleCreatePreset)
				r.Get("/", s.handleListPresets)
				r.Get("/{id}", s.handleGetPreset)
				r.Put("/{id}", s.handleUpdatePreset)
				r.Delete("/{id}", s.handleDeletePreset)
			})
		})

		r.Route("/exposure", func(r chi.Router) {
			r.Use(s.requireFeature(config.FeatureExposure))
			r.Post("/stops", s.handleStops)
			r.Post("/resize", s.handleResize)
			r.Post("/reciprocity", s.handleReciprocity)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String(), "features", s.features.List())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
