package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/adlens/internal/config"
)

// Server represents the API server
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new API server around the configured routes.
func NewServer(cfg config.ServerConfig, h *Handlers, metrics http.Handler) *Server {
	return &Server{
		config:  cfg,
		handler: SetupRoutes(h, cfg, metrics),
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	readTimeout := s.config.ReadTimeout()
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := s.config.WriteTimeout()
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Minute
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
