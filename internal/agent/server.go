// Package agent exposes the action registry over HTTP: a JSON ask
// endpoint and a websocket chat stream.
package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/injhive/injhive/internal/actions"
	"github.com/injhive/injhive/internal/model"
	"github.com/injhive/injhive/internal/version"
)

// Server serves the conversational agent.
type Server struct {
	registry *actions.Registry
	deps     *actions.Deps
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewServer(registry *actions.Registry, deps *actions.Deps, log zerolog.Logger) *Server {
	return &Server{
		registry: registry,
		deps:     deps,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/ask", s.handleAsk)
	r.Get("/ws", s.handleWS)
	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Info().Str("addr", addr).Msg("agent listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.CLIVersion,
	})
}

// askRequest is the body of POST /ask and of every websocket message.
type askRequest struct {
	Text string `json:"text"`
}

// askReply pairs the conversational reply with the envelope.
type askReply struct {
	Reply    string          `json:"reply"`
	Response *model.Response `json:"response"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be {\"text\": \"...\"}"})
		return
	}
	res := s.registry.Dispatch(r.Context(), s.deps, req.Text)
	status := http.StatusOK
	if !res.Response.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, askReply{Reply: res.Reply, Response: res.Response})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var req askRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug().Err(err).Msg("websocket closed")
			}
			return
		}
		if req.Text == "" {
			continue
		}
		res := s.registry.Dispatch(r.Context(), s.deps, req.Text)
		if err := conn.WriteJSON(askReply{Reply: res.Reply, Response: res.Response}); err != nil {
			s.log.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
