// Package server exposes the chat core over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"tutorbot/internal/llm"
)

const maxMessages = 50

// Answerer produces a reply for a conversation.
type Answerer interface {
	Answer(ctx context.Context, history []llm.Message) (string, error)
}

// Server handles the chat API.
type Server struct {
	bot     Answerer
	timeout time.Duration
	logger  *log.Logger
}

// New creates a server. timeout bounds each Answer call; logger may be nil.
func New(bot Answerer, timeout time.Duration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Server{bot: bot, timeout: timeout, logger: logger}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// ListenAndServe runs the API on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Printf("server: listening on %s", addr)
	return srv.ListenAndServe()
}

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateMessages(req.Messages); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	reply, err := s.bot.Answer(ctx, req.Messages)
	if err != nil {
		s.logger.Printf("server: answer failed: %v", err)
		switch {
		case errors.Is(err, llm.ErrUnavailable):
			writeError(w, http.StatusServiceUnavailable, "chat service unavailable")
		case errors.Is(err, llm.ErrUpstream):
			writeError(w, http.StatusBadGateway, "chat service error")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// validateMessages checks the conversation shape and returns a
// client-facing reason when it is rejected.
func validateMessages(msgs []llm.Message) string {
	if len(msgs) == 0 {
		return "messages must not be empty"
	}
	if len(msgs) > maxMessages {
		return "too many messages"
	}
	for i, m := range msgs {
		if !llm.ValidRole(m.Role) {
			return fmt.Sprintf("invalid role at message %d", i)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Sprintf("empty content at message %d", i)
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
