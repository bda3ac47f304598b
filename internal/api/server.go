package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/regmeter/regmeter/internal/analyzer"
	"github.com/regmeter/regmeter/internal/config"
	"github.com/regmeter/regmeter/internal/fetch"
)

// Server is the HTTP API server for regmeter.
type Server struct {
	router     chi.Router
	analyzer   *analyzer.Analyzer
	fetchStats *fetch.FetchStats
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(an *analyzer.Analyzer, stats *fetch.FetchStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		analyzer:   an,
		fetchStats: stats,
		log:        log,
		cfg:        cfg,
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

	r.Group(func(r chi.Router) {
		// Auth is optional: routes are open unless an API key is configured.
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/agencies", s.handleAgencies)
		r.Get("/api/agency_sections", s.handleAgencySections)
		r.Get("/api/wordcount", s.handleWordCount)
		r.Get("/api/checksums", s.handleChecksums)
		r.Get("/api/complexity", s.handleComplexity)
		r.Get("/api/historical", s.handleHistorical)
		r.Get("/api/report", s.handleReport)
		r.Get("/api/stats/fetch", s.handleFetchStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
