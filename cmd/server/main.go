package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/listkeeper/internal/api"
	"github.com/ignite/listkeeper/internal/config"
	"github.com/ignite/listkeeper/internal/pkg/logger"
	"github.com/ignite/listkeeper/internal/service/subscriber"
	"github.com/ignite/listkeeper/internal/storage"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(!cfg.Logging.DisablePIIRedaction)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Record store + subscriber manager
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	svc := subscriber.NewService(ctx, store)

	// Optional Redis-backed signup rate limiting
	var limiter *api.RateLimiter
	if cfg.RateLimit.Enabled && cfg.RateLimit.RedisURL != "" {
		limiter, err = api.NewRateLimiter(cfg.RateLimit.RedisURL, cfg.RateLimit.PerMinute)
		if err != nil {
			// The list must stay reachable even when Redis is not.
			logger.Warn("rate limiter unavailable, signups run unthrottled", "error", err)
			limiter = nil
		}
	}

	server := api.NewServer(*cfg, svc, limiter)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := cfg.Server.Addr()
		log.Printf("Starting server on %s (store: %s)", addr, cfg.Storage.Path)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Final flush: give a save that failed mid-run one last chance.
	svc.Flush(shutdownCtx)

	if limiter != nil {
		limiter.Close()
	}

	log.Println("Server stopped")
}
