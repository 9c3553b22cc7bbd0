// Package api is the thin HTTP adapter over the subscriber service: it
// maps URLs to manager calls and translates sentinel errors to status
// codes. No business logic lives here.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/listkeeper/internal/config"
	"github.com/ignite/listkeeper/internal/service/subscriber"
)

// Server represents the API server
type Server struct {
	config   config.Config
	handler  http.Handler
	handlers *Handlers
	server   *http.Server
	router   *chi.Mux
	limiter  *RateLimiter
}

// NewServer creates a new API server. limiter may be nil, in which case
// the signup endpoint runs unthrottled.
func NewServer(cfg config.Config, svc *subscriber.Service, limiter *RateLimiter) *Server {
	handlers := NewHandlers(svc)
	router := SetupRoutes(handlers, limiter, cfg)

	return &Server{
		config:   cfg,
		handler:  router,
		handlers: handlers,
		router:   router,
		limiter:  limiter,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
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
