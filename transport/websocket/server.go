package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	writeTimeout = 10 * time.Second
	// closeGracePeriod bounds the wait for the peer's close reply.
	closeGracePeriod = time.Second
)

var ErrUnknownAction = errors.New("unknown action")

type sessionService interface {
	Get(ctx context.Context, id string) (*entity.Session, error)
	Play(ctx context.Context, id string, row, col int) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)

	Subscribe(id string) (<-chan entity.Session, func(), error)
}

type handlerFunc func(ctx context.Context, conn *connection, sessionID string, msg *Message) error

// Server streams game snapshots of one session to every connected renderer.
type Server struct {
	logger   *slog.Logger
	sessions sessionService
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, sessions sessionService, allowedOrigins []string) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(allowedOrigins),
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionState] = server.handleState
	server.handlers[actionTurn] = server.handleTurn
	server.handlers[actionReset] = server.handleReset

	return server
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}

// connection serializes writes; gorilla allows one writer at a time.
type connection struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (that *connection) send(msg Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) sendSession(action string, sess *entity.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return that.send(Message{Action: action, Payload: payload})
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	log := that.logger.With("method", "ServeHTTP", "session", sessionID)
	ctx := r.Context()

	feed, cancel, err := that.sessions.Subscribe(sessionID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("failed to subscribe", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer cancel()

	wsConn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer wsConn.Close()

	conn := &connection{conn: wsConn}

	log.Info("websocket connection established")

	if err = that.handleState(ctx, conn, sessionID, &Message{Action: actionState}); err != nil {
		log.Error("failed to send initial state", "error", err)
		return
	}

	go that.forward(conn, feed)

	that.readMessages(ctx, conn, sessionID)

	log.Info("websocket connection closed")
}

// forward - pushes published snapshots until the feed is closed.
func (that *Server) forward(conn *connection, feed <-chan entity.Session) {
	log := that.logger.With("method", "forward")

	for sess := range feed {
		if err := conn.sendSession(actionState, &sess); err != nil {
			log.Error("failed to forward snapshot", "error", err)
		}
	}

	// feed is closed on disconnect or when the session is deleted; the latter ends the read loop
	conn.mu.Lock()
	_ = conn.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
		time.Now().Add(writeTimeout))
	conn.mu.Unlock()

	// a peer that never answers the close frame must not hold the read loop
	if err := conn.conn.SetReadDeadline(time.Now().Add(closeGracePeriod)); err != nil {
		log.Debug("failed to set read deadline", "error", err)
	}
}

func (that *Server) readMessages(ctx context.Context, conn *connection, sessionID string) {
	log := that.logger.With("method", "readMessages", "session", sessionID)

	for {
		var msg Message
		if err := conn.conn.ReadJSON(&msg); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			that.reply(conn, msg.Action, fmt.Errorf("%w: %s", ErrUnknownAction, msg.Action))
			continue
		}

		if err := handler(ctx, conn, sessionID, &msg); err != nil {
			that.reply(conn, msg.Action, err)
		}
	}
}

func (that *Server) reply(conn *connection, action string, err error) {
	if sendErr := conn.send(Message{Action: action, Error: err.Error()}); sendErr != nil {
		that.logger.Error("failed to send error response", "error", sendErr)
	}
}

func (that *Server) handleState(ctx context.Context, conn *connection, sessionID string, msg *Message) error {
	sess, err := that.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	return conn.sendSession(msg.Action, sess)
}

// handleTurn - the new state reaches every connection, this one included, through the feed.
func (that *Server) handleTurn(ctx context.Context, _ *connection, sessionID string, msg *Message) error {
	var payload TurnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if _, err := that.sessions.Play(ctx, sessionID, payload.Row, payload.Col); err != nil {
		return err
	}

	return nil
}

func (that *Server) handleReset(ctx context.Context, _ *connection, sessionID string, _ *Message) error {
	if _, err := that.sessions.Reset(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	return nil
}
