package server

import (
	"encoding/json"
	"net/http"
	"time"

	"lol-runesync/internal/middleware"
	"lol-runesync/internal/poller"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// StatusSource is what the status server reads from.
type StatusSource interface {
	Status() poller.Status
}

type StatusServer struct {
	source  StatusSource
	started time.Time
	logger  zerolog.Logger
}

func NewStatusServer(p *poller.Poller, logger zerolog.Logger) *StatusServer {
	return &StatusServer{source: p, started: time.Now(), logger: logger}
}

// Routes serves the read-only status API. Browser overlays on other local
// ports read it, hence CORS.
func (s *StatusServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(s.logger))

	r.Get("/status", s.handleStatus)
	r.Get("/healthz", s.handleHealthz)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

type statusResponse struct {
	poller.Status
	Uptime string `json:"uptime"`
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status: s.source.Status(),
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *StatusServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
