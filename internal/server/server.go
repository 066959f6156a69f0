// Package server exposes dashboards, rendering and snapping over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/dashboards
//	GET    /api/dashboards/{name}     JSON, or msgpack with Accept: application/msgpack
//	PUT    /api/dashboards/{name}
//	DELETE /api/dashboards/{name}
//	POST   /api/render/svg            dashboard document in, SVG out
//	POST   /api/snap
//	POST   /api/distribute
//	POST   /api/align
//
// Errors are JSON objects {"code": ..., "message": ...} with the HTTP status
// derived from the error code.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zwdscn-cloud/JFreports/pkg/snap"
	"github.com/zwdscn-cloud/JFreports/pkg/storage"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 8 << 20

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCanvas sets the canvas settings used when a rendered document has
// none of its own.
func WithCanvas(st surface.Settings) Option {
	return func(s *Server) { s.canvas = st }
}

// WithSnapOptions sets the default snap options for /api/snap.
func WithSnapOptions(o snap.Options) Option {
	return func(s *Server) { s.snap = o }
}

// Server handles the HTTP API.
type Server struct {
	store  storage.Store
	logger *log.Logger
	canvas surface.Settings
	snap   snap.Options
	router chi.Router
}

// New builds the router over store.
func New(store storage.Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		logger: log.New(io.Discard),
		canvas: surface.DefaultSettings(),
		snap:   snap.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Route("/dashboards", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Get("/{name}", s.handleGet)
			r.Put("/{name}", s.handlePut)
			r.Delete("/{name}", s.handleDelete)
		})
		r.Post("/render/svg", s.handleRenderSVG)
		r.Post("/snap", s.handleSnap)
		r.Post("/distribute", s.handleDistribute)
		r.Post("/align", s.handleAlign)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
