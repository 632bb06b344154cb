// Package api provides the HTTP server and request handlers for the
// moodfm backend.
package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/moodfm/moodfm/internal/db"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr string
}

// Server is the HTTP server for the backend API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	database *db.DB
	logger   *zap.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, handlers *Handlers, database *db.DB, logger *zap.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		router:   router,
		handlers: handlers,
		database: database,
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	// Every external call and store operation inherits this bound.
	s.router.Use(middleware.Timeout(30 * time.Second))
}

// setupRoutes configures routes for the API.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/auth/session", s.handlers.Authenticate)

		r.Get("/user/info", s.handlers.UserInfo)
		r.Post("/user/profile", s.handlers.EnsureProfile)
		r.Get("/user/recent", s.handlers.RecentTracks)
		r.Delete("/user", s.handlers.DeleteAccount)

		r.Post("/emotions", s.handlers.TagTrack)
		r.Get("/emotions", s.handlers.ListEmotions)
		r.Delete("/emotions/{id}", s.handlers.DeleteEmotion)
		r.Delete("/emotions", s.handlers.DeleteAllEmotions)

		r.Post("/playlists", s.handlers.BuildPlaylist)
		r.Get("/playlists", s.handlers.ListPlaylists)
		r.Get("/playlists/{id}", s.handlers.GetPlaylist)

		r.Get("/tracks/search", s.handlers.SearchTracks)

		r.Get("/moods/suggestions", s.handlers.MoodSuggestions)
	})
}

// handleHealth reports liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.database.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt
// signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return err
	}

	s.logger.Info("server stopped")
	return nil
}
