package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/chatframe/internal/config"
	"github.com/dgallion1/chatframe/internal/livechat"
	"github.com/dgallion1/chatframe/internal/page"
	"github.com/dgallion1/chatframe/internal/telemetry"
)

// Server is the HTTP API server for chatframe.
type Server struct {
	router chi.Router
	page   *page.Page
	reader *livechat.Reader
	stats  *telemetry.QueryStats
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(p *page.Page, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		page:   p,
		reader: livechat.NewReader(p, cfg.Selectors()),
		stats:  telemetry.NewQueryStats(cfg.StatsWindow),
		log:    log,
		cfg:    cfg,
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
	if s.cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/page", s.handleGetPage)
		r.Put("/api/page", s.handlePutPage)
		r.Put("/api/frames/{frameID}", s.handlePutFrame)
		r.Delete("/api/frames/{frameID}", s.handleDeleteFrame)

		r.Get("/api/comments", s.handleAllComments)
		r.Get("/api/comments/latest", s.handleLatestComment)
		r.Get("/api/comments/owner", s.handleOwnerComments)
		r.Get("/api/transcript", s.handleTranscript)

		r.Get("/api/stats/queries", s.handleQueryStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
