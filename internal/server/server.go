// Package server exposes the chat orchestrator over WebSocket and the
// listings store over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kaimana/makeke/internal/chat"
	"github.com/kaimana/makeke/internal/listings"
	"github.com/kaimana/makeke/internal/models"
)

// turnTimeout bounds a single chat turn, tool rounds included.
const turnTimeout = 2 * time.Minute

// OrchestratorFactory creates a fresh orchestrator per connection: each
// WebSocket client gets its own conversation and model session.
type OrchestratorFactory func() *chat.Orchestrator

// Server wires the chat and listings surfaces into an http.Handler.
type Server struct {
	store    listings.Store
	newConvo OrchestratorFactory
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a server over the listings store and orchestrator factory.
func New(store listings.Store, factory OrchestratorFactory, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    store,
		newConvo: factory,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1 << 20, // inline image payloads
			WriteBufferSize: 64 << 10,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/listings", s.handleListings)
	mux.HandleFunc("/ws/chat", s.handleChat)
	return Logging(s.logger)(mux)
}

// handleListings serves filtered listings as JSON.
func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.SearchFilters{
		Query:    q.Get("query"),
		Category: q.Get("category"),
		Location: q.Get("location"),
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		filters.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		filters.MaxPrice = &v
	}

	result, err := s.store.List(r.Context(), filters)
	if err != nil {
		s.logger.Error("list listings failed", "error", err)
		http.Error(w, "listings unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("encode listings failed", "error", err)
	}
}

// clientFrame is a message from the WebSocket client.
type clientFrame struct {
	Type  string               `json:"type"` // "message", "confirm", "reset"
	Text  string               `json:"text,omitempty"`
	Image *models.PendingImage `json:"image,omitempty"`
	ID    string               `json:"id,omitempty"` // message id for "confirm"
}

// serverFrame is a message to the WebSocket client.
type serverFrame struct {
	Type     string              `json:"type"` // "chat_message", "dispatch", "error"
	Message  *models.ChatMessage `json:"message,omitempty"`
	Dispatch *chat.Dispatch      `json:"dispatch,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// handleChat runs one conversation over a WebSocket connection. Frames are
// processed sequentially, which also enforces the one-turn-at-a-time rule
// per conversation.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	convo := s.newConvo()
	defer convo.Reset() // session does not survive the connection

	// Send the transcript opener.
	for _, m := range convo.History() {
		msg := m
		if err := conn.WriteJSON(serverFrame{Type: "chat_message", Message: &msg}); err != nil {
			return
		}
	}

	for {
		var frame clientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		if !s.handleFrame(r.Context(), conn, convo, frame) {
			return
		}
	}
}

// handleFrame processes one client frame. Returns false when the
// connection should close.
func (s *Server) handleFrame(ctx context.Context, conn *websocket.Conn, convo *chat.Orchestrator, frame clientFrame) bool {
	switch frame.Type {
	case "message":
		turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
		defer cancel()

		assistant, err := convo.Submit(turnCtx, frame.Text, frame.Image)
		if err != nil {
			// Empty or duplicate turns are no-ops; report and continue.
			return s.send(conn, serverFrame{Type: "error", Error: err.Error()})
		}

		history := convo.History()
		userMsg := history[len(history)-2]
		if !s.send(conn, serverFrame{Type: "chat_message", Message: &userMsg}) {
			return false
		}
		return s.send(conn, serverFrame{Type: "chat_message", Message: assistant})

	case "confirm":
		dispatch, err := convo.Confirm(ctx, frame.ID)
		if err != nil {
			return s.send(conn, serverFrame{Type: "error", Error: err.Error()})
		}
		return s.send(conn, serverFrame{Type: "dispatch", Dispatch: dispatch})

	case "reset":
		convo.Reset()
		history := convo.History()
		welcome := history[0]
		return s.send(conn, serverFrame{Type: "chat_message", Message: &welcome})

	default:
		return s.send(conn, serverFrame{Type: "error", Error: "unknown frame type"})
	}
}

func (s *Server) send(conn *websocket.Conn, frame serverFrame) bool {
	if err := conn.WriteJSON(frame); err != nil {
		s.logger.Warn("websocket write failed", "error", err)
		return false
	}
	return true
}
