package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/qaforge/internal/api"
	"github.com/dgallion1/qaforge/internal/config"
	"github.com/dgallion1/qaforge/internal/generate"
	"github.com/dgallion1/qaforge/internal/pipeline"
	"github.com/dgallion1/qaforge/internal/qastore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	gen := generate.NewClient(cfg.OllamaURL, cfg.OllamaModel, log)
	gen.SetRetryDelay(cfg.RetryDelay)
	store := qastore.New(cfg.DataDir, log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, gen, store, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, gen, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		gen.Close()
	}()

	log.Info("starting qaforge", "port", cfg.Port, "model", cfg.OllamaModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
