package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-machine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-machine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-machine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-machine/internal/view"
)

const (
	defaultOutboxSize = 64
	shutdownTimeout   = 5 * time.Second
)

type gameMachine interface {
	PublishEvent(event entity.GameEvent) entity.GameState
	SubscribeToState(fn func(entity.GameState)) *usecase.Subscription
}

type Server struct {
	logger   *slog.Logger
	machine  gameMachine
	upgrader websocket.Upgrader

	outboxSize int
	handlers   map[string]func(message *Message, conn *connection) error
}

func New(logger *slog.Logger, machine gameMachine) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		machine: machine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the board has no identity or cookies to protect, so any origin may connect
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		outboxSize: defaultOutboxSize,
		handlers:   make(map[string]func(*Message, *connection) error),
	}

	server.handlers[actionMove] = server.handleMove
	server.handlers[actionReset] = server.handleReset

	return server
}

// Handler - the /ws endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and streams game states to it.
func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket", "remote", r.RemoteAddr)

	wsConn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(wsConn, that.outboxSize)
	defer conn.close()

	go conn.writeLoop(log)
	go func() {
		select {
		case <-ctx.Done():
			conn.close()
		case <-conn.done:
		}
	}()

	sub := that.machine.SubscribeToState(func(state entity.GameState) {
		that.sendState(conn, state)
	})
	defer sub.Cancel()

	log.Info("WebSocket connection established")

	that.handleMessages(conn)

	log.Info("WebSocket connection closed")
}

// handleMessages - processes messages from the client until the connection drops.
func (that *Server) handleMessages(conn *connection) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, reqBody, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(conn, "", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(conn, message.Action, fmt.Errorf("%w: %q", apperror.ErrUnknownAction, message.Action))
			continue
		}

		if err = handler(&message, conn); err != nil {
			log.Warn("error processing message", "action", message.Action, "error", err)
			that.sendError(conn, message.Action, err)
		}
	}
}

func (that *Server) handleMove(msg *Message, _ *connection) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: %s", apperror.ErrMissingPayload, msg.Action)
	}

	var payload MovePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	event, err := entity.ParseEvent(entity.EventPlayerMove, payload.coordinate())
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	that.machine.PublishEvent(event)

	return nil
}

func (that *Server) handleReset(_ *Message, _ *connection) error {
	that.machine.PublishEvent(entity.Reset{})

	return nil
}

func (that *Server) sendState(conn *connection, state entity.GameState) {
	msg, err := newMessage(actionState, StatePayload{
		State:   state,
		Display: view.FromState(state),
	})
	if err != nil {
		that.logger.Error("failed to build state message", "error", err)
		return
	}

	if !conn.enqueue(msg) {
		that.logger.Warn("dropped state for closed or slow connection", "status", state.GameStatus)
	}
}

func (that *Server) sendError(conn *connection, action string, cause error) {
	msg, err := newMessage(actionError, ErrorPayload{Action: action, Error: cause.Error()})
	if err != nil {
		that.logger.Error("failed to build error message", "error", err)
		return
	}

	conn.enqueue(msg)
}
