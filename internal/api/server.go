package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/qaforge/internal/config"
	"github.com/dgallion1/qaforge/internal/generate"
	"github.com/dgallion1/qaforge/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for qaforge.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	gen          *generate.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, gen *generate.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		gen:          gen,
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
		r.Use(AuthMiddleware(s.cfg.QAForgeAPIKey, s.log))

		r.Post("/api/generate", s.handleGenerate)
		r.Get("/api/generate/{jobID}/status", s.handleGenerateStatus)
		r.Get("/api/stats/backend", s.handleBackendStats)

		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{name}/qa", s.handleGetQA)
		r.Delete("/api/documents/{name}", s.handleDeleteDocument)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
