package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/musilife/internal/config"
	"github.com/jwebster45206/musilife/internal/handlers"
	"github.com/jwebster45206/musilife/internal/logger"
	"github.com/jwebster45206/musilife/internal/middleware"
	"github.com/jwebster45206/musilife/internal/storage"
	"github.com/jwebster45206/musilife/pkg/engine"
	"github.com/jwebster45206/musilife/pkg/rng"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting MusiLife API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"content_source", cfg.ContentSource,
		"seed", cfg.Seed)

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	content, err := storage.Open(storageCtx, cfg, log)
	if err != nil {
		log.Error("Failed to open content source", "error", err)
		os.Exit(1)
	}

	session, err := engine.NewSession(storageCtx, content,
		engine.WithRandom(rng.New(cfg.Seed)),
		engine.WithLogger(log))
	if err != nil {
		log.Error("Failed to load content", "error", err)
		os.Exit(1)
	}
	log.Info("Content loaded successfully", "counts", session.Catalog().Counts())

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(content, log)
	mux.Handle("/health", healthHandler)

	gameHandler := handlers.NewGameHandler(session, log)
	mux.Handle("/v1/game", gameHandler)
	mux.Handle("/v1/game/", gameHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(log, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := content.Close(); err != nil {
		log.Error("Error closing content source", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
