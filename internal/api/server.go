package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/catalogsync/internal/pipeline"
)

// StatusSource reports the active or most recent import run.
type StatusSource interface {
	Current() (pipeline.RunSnapshot, bool)
}

// Server exposes health, Prometheus metrics and run status while an import
// is in progress.
type Server struct {
	router  chi.Router
	status  StatusSource
	metrics http.Handler
	token   string
	log     *slog.Logger
}

// NewServer creates the router. A non-empty token protects /status and
// /metrics with bearer auth.
func NewServer(status StatusSource, metrics http.Handler, token string, log *slog.Logger) *Server {
	s := &Server{
		status:  status,
		metrics: metrics,
		token:   token,
		log:     log,
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

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.token != "" {
			r.Use(AuthMiddleware(s.token, s.log))
		}
		r.Get("/status", s.handleStatus)
		if s.metrics != nil {
			r.Method(http.MethodGet, "/metrics", s.metrics)
		}
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.status.Current()
	if !ok {
		jsonError(w, "no import run yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
