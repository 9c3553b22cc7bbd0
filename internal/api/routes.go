package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ignite/listkeeper/internal/config"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, limiter *RateLimiter, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestID)

	// CORS - the signup form is embedded on external pages
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health checks (never rate limited)
	r.Get("/health", h.Health)
	r.Get("/health/live", h.Liveness)

	// Public signup flow
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Post("/subscribe", h.Subscribe)
	})
	r.Get("/verify/{token}", h.VerifyEmail)
	r.Get("/subscribers/stats", h.SubscriberStats)

	// Serve the static signup page
	staticHandler(r, cfg.Server.StaticDir)

	return r
}

// staticHandler serves static files and falls back to index.html for
// unknown non-API paths.
func staticHandler(r chi.Router, staticPath string) {
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		// Skip API routes
		if strings.HasPrefix(path, "/subscribe") ||
			strings.HasPrefix(path, "/verify") ||
			strings.HasPrefix(path, "/subscribers") ||
			strings.HasPrefix(path, "/health") {
			http.NotFound(w, req)
			return
		}

		filePath := filepath.Join(staticPath, filepath.Clean(path))
		if info, err := os.Stat(filePath); err == nil && !info.IsDir() {
			http.ServeFile(w, req, filePath)
			return
		}

		http.ServeFile(w, req, filepath.Join(staticPath, "index.html"))
	})
}
