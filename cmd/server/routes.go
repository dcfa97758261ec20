package main

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sofialabs/sofia"
	"github.com/sofialabs/sofia/internal/config"
	"github.com/sofialabs/sofia/internal/metrics"
	"github.com/sofialabs/sofia/internal/observability"
	"github.com/sofialabs/sofia/pkg/errors"
)

// maxChatBodyBytes bounds an inbound chat payload.
const maxChatBodyBytes = 64 << 10

type server struct {
	client *sofia.Client
	log    *observability.Logger
}

// newRouter builds the HTTP surface. Handlers only call the public client;
// the conversation core stays transport-free.
func newRouter(client *sofia.Client, cfg *config.Config, log *observability.Logger) http.Handler {
	s := &server{client: client, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /session/{id}", s.handleGetSession)
	mux.HandleFunc("GET /session/{id}/profile", s.handleGetProfile)
	mux.HandleFunc("GET /session/{id}/quality", s.handleGetQuality)
	mux.HandleFunc("DELETE /session/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /health/live", s.handleHealthLive)
	mux.HandleFunc("GET /health/ready", s.handleHealthReady)
	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.Handler())
	}

	return observability.RequestIDMiddleware(metrics.Middleware(mux))
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req sofia.ChatRequest
	body := http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, errors.NewInvalidRequestError("malformed chat request body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" && req.SessionID == "" {
		s.writeError(w, r, errors.NewInvalidRequestError("message is required"))
		return
	}

	resp, err := s.client.Chat(r.Context(), req.Message, req.SessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.client.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.client.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *server) handleGetQuality(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.client.Session(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	memory, _ := s.client.QualityMemory(id)
	s.writeJSON(w, http.StatusOK, memory)
}

func (s *server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.client.Session(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.client.DeleteSession(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleHealthLive(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleHealthReady(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write response failed", "error", err)
	}
}

// writeError maps engine errors onto their HTTP status and a stable JSON
// error envelope.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	kind := "internal_error"

	var ee *errors.EngineError
	if stderrors.As(err, &ee) {
		status = ee.HTTPStatusCode()
		message = ee.Message
		kind = ee.Type
	}
	if status >= http.StatusInternalServerError {
		s.log.WithRequestID(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, map[string]any{
		"error": map[string]string{"type": kind, "message": message},
	})
}
