package server

import (
	"context"
	"destiny/communication"
	"destiny/gtp"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	shutdownTimeout  = 5 * time.Second
	idlePingInterval = 30 * time.Second
)

// Server exposes a command handler over HTTP and websocket sessions.
type Server struct {
	handler      *gtp.Handler
	router       chi.Router
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

func NewServer(handler *gtp.Handler) *Server {
	s := &Server{
		handler:      handler,
		upgrader:     websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		pingInterval: idlePingInterval,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/command", s.handleCommand)
	r.Get("/api/board", s.handleBoard)
	r.Get("/ws", s.handleWS)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	log.Info().Msgf("listening on %s", addr)
	select {
	case <-ctx.Done():
		log.Info().Msgf("shutting down: %v", ctx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Msgf("graceful shutdown failed: %v", err)
		return server.Close()
	}
	return nil
}

// execute runs one command line and splits the formatted response into its
// status and text.
func (s *Server) execute(ctx context.Context, line string) communication.CommandResponse {
	response, quit := s.handler.Execute(ctx, line)
	if response == "" {
		return communication.CommandResponse{OK: true}
	}
	text := strings.TrimSuffix(response, "\n\n")
	ok := text[0] == '='
	// Drop the status character and the optional id.
	if i := strings.IndexByte(text, ' '); i >= 0 {
		text = text[i+1:]
	} else {
		text = ""
	}
	return communication.CommandResponse{OK: ok, Response: text, Quit: quit}
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var payload communication.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if strings.ContainsAny(payload.Command, "\r\n") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "one command per request"})
		return
	}

	resp := s.execute(r.Context(), payload.Command)
	status := http.StatusOK
	if !resp.OK {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	board := s.handler.Board()
	writeJSON(w, http.StatusOK, communication.BoardResponse{
		Width:        board.Width(),
		Komi:         board.Komi(),
		PlayerToMove: board.PlayerToMove().String(),
		GameIsOver:   board.GameIsOver(),
		Board:        board.String(),
	})
}

// handleWS runs a session: every text message is one command line and is
// answered by one message carrying the formatted response.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	send := make(chan []byte, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer conn.Close()
		if err := s.writeWithHeartbeat(conn, send); err != nil {
			log.Debug().Msgf("websocket writer stopped: %v", err)
		}
	}()
	defer close(send)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		response, quit := s.handler.Execute(r.Context(), string(message))
		if response == "" {
			continue
		}
		if !deliver(send, done, []byte(response)) || quit {
			return
		}
	}
}

// deliver queues msg for the writer, or reports false once the writer has
// stopped.
func deliver(send chan<- []byte, done <-chan struct{}, msg []byte) bool {
	select {
	case send <- msg:
		return true
	case <-done:
		return false
	}
}

func (s *Server) writeWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < s.pingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
