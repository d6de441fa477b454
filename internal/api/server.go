// Package api serves the summarizer over HTTP. Uploads are queued as jobs
// on the pipeline orchestrator and polled by ID.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/pdfdigest/internal/completion"
	"github.com/dgallion1/pdfdigest/internal/config"
	"github.com/dgallion1/pdfdigest/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for pdfdigest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	llm          *completion.Instrumented
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. llm may be nil, in
// which case the stats endpoint reports 503.
func NewServer(orch *pipeline.Orchestrator, llm *completion.Instrumented, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		llm:          llm,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.PdfdigestAPIKey, s.log))

		r.Post("/api/summarize", s.handleSummarize)
		r.Post("/api/summarize/batch", s.handleBatchSummarize)
		r.Get("/api/summarize/{jobID}", s.handleSummarizeStatus)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
