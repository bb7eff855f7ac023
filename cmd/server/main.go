// Package main is the entry point for the ServiTrack API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servitrack/internal/config"
	"servitrack/internal/core/session"
	"servitrack/internal/domain/audit"
	"servitrack/internal/domain/parts"
	"servitrack/internal/domain/request"
	"servitrack/internal/infrastructure/api"
	v1 "servitrack/internal/infrastructure/http/v1"
	"servitrack/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting servitrack server")

	// --- Upstream repository client ---
	client := api.New(cfg.APIBaseURL, cfg.APITimeout)

	// --- Transition audit trail ---
	trail, err := audit.NewTrail(cfg.AuditCapacity)
	if err != nil {
		log.Fatalw("failed to initialize audit trail", "error", err)
	}

	// --- Stores ---
	requestStore := request.NewStore(client.Requests(), cfg.PageSize,
		request.WithAuditTrail(trail),
		request.WithLogger(log),
	)
	partsStore := parts.NewStore(client.Parts(), cfg.PageSize, log)

	// Initial load is best-effort: the upstream may come up after us, and
	// every listing endpoint can reload on demand.
	if err := requestStore.Load(ctx); err != nil {
		log.Warnw("initial request load failed", "error", err)
	}
	if err := partsStore.Load(ctx); err != nil {
		log.Warnw("initial parts load failed", "error", err)
	}

	// --- Session service ---
	sessions := session.NewService(cfg.SessionSecret)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Requests: requestStore,
		Parts:    partsStore,
		Trail:    trail,
		Upstream: client,
		Sessions: sessions,
		Logger:   log,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port, "upstream", cfg.APIBaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
