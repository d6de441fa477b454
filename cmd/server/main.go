package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/pdfdigest/internal/api"
	"github.com/dgallion1/pdfdigest/internal/completion"
	"github.com/dgallion1/pdfdigest/internal/config"
	"github.com/dgallion1/pdfdigest/internal/pipeline"
	"github.com/dgallion1/pdfdigest/internal/telemetry"
)

func main() {
	cfg := config.Load()
	if os.Getenv("LOG_FORMAT") == "" {
		cfg.LogFormat = "json"
	}
	log := cfg.NewLogger(os.Stdout)

	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "pdfdigest-server",
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		Writer:      os.Stderr,
		Logger:      log,
	})
	if err != nil {
		log.Error("tracing init failed", "error", err)
		os.Exit(1)
	}

	// Initialize completion client and pipeline.
	p, llm, err := pipeline.FromConfig(ctx, cfg, log)
	if err != nil {
		log.Error("pipeline init failed", "error", err)
		os.Exit(1)
	}

	orch := pipeline.NewOrchestrator(pipeline.OrchestratorConfigFrom(cfg), p, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, llm, log, cfg)

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		completion.Close(llm)
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	log.Info("starting pdfdigest", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
