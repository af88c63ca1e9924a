// Package api exposes the operational HTTP surface of a scraping run: health
// probes and the Prometheus metrics endpoint. The pipeline itself has no HTTP
// interface; this listener exists so a long run can be watched from outside.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/adrockmkt/lead-scraper-maps/internal/telemetry"
)

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	Ping() error
}

// Server wires the ops routes.
type Server struct {
	router chi.Router
	store  Pinger
	logger *zap.Logger
}

// NewServer constructs a Server. store may be nil, in which case readyz only
// reports process liveness.
func NewServer(store Pinger, logger *zap.Logger) *Server {
	s := &Server{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unready",
				"error":  err.Error(),
			})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response write failed", zap.Error(err))
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
