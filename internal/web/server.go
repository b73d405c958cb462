// Package web provides the HTTP server and JSON API for the data
// preparation service: dataset upload, transformation, persistence,
// querying, export and column analysis.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/dataprep/internal/config"
	"github.com/JonMunkholm/dataprep/internal/describe"
	"github.com/JonMunkholm/dataprep/internal/session"
	"github.com/JonMunkholm/dataprep/internal/store"
	"github.com/JonMunkholm/dataprep/internal/transform"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP boundary of the application.
type Server struct {
	cfg       *config.Config
	store     store.Store
	engine    *transform.Engine
	sessions  *session.Manager
	describer *describe.Describer
	router    *chi.Mux
	server    *http.Server
}

// NewServer wires the application services into an HTTP server.
func NewServer(cfg *config.Config, st store.Store, engine *transform.Engine, sessions *session.Manager, describer *describe.Describer) *Server {
	s := &Server{
		cfg:       cfg,
		store:     st,
		engine:    engine,
		sessions:  sessions,
		describer: describer,
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Session lifecycle
		r.Post("/sessions", s.handleCreateSession)

		// Per-session operations
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)
			r.Post("/dataset", s.handleUploadDataset)
			r.Post("/transform", s.handleTransform)
			r.Post("/save", s.handleSave)
			r.Post("/describe", s.handleDescribe)
			r.Get("/export", s.handleExport)
		})

		// Query and table management
		r.Post("/query", s.handleQuery)
		r.Get("/tables", s.handleListTables)
		r.Delete("/tables", s.handleDropTables)
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds hardening headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v and writes it with the given status code. Encoding
// errors are logged; headers are already sent at that point.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
