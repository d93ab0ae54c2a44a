package websocket

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-machine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-machine/internal/usecase"
)

// acceptOne returns the server side of a single upgraded connection and the
// client that dialed it.
func acceptOne(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	accepted := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted <- wsConn
	}))
	t.Cleanup(srv.Close)

	client := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http"))

	select {
	case wsConn := <-accepted:
		t.Cleanup(func() {
			_ = wsConn.Close()
		})
		return wsConn, client
	case <-time.After(readWait):
		t.Fatal("server never accepted the connection")
		return nil, nil
	}
}

func TestConnection_OutboxOverflow(t *testing.T) {
	// Given: a connection with a one-message outbox that is never drained
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	machine := usecase.NewGameMachine(logger)
	server := New(logger, machine)
	server.outboxSize = 1

	wsConn, client := acceptOne(t)
	conn := newConnection(wsConn, server.outboxSize)

	sub := machine.SubscribeToState(func(state entity.GameState) {
		server.sendState(conn, state)
	})
	defer sub.Cancel()

	// When: several events are published
	published := make(chan struct{})
	go func() {
		defer close(published)
		machine.PublishEvent(entity.NewPlayerMove(0, 0))
		machine.PublishEvent(entity.NewPlayerMove(1, 0))
		machine.PublishEvent(entity.NewPlayerMove(-1, 0))
		machine.PublishEvent(entity.Reset{})
	}()

	// Then: publishing is never blocked by the stuck client
	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("publishing was blocked by a full outbox")
	}

	// And: the overflowing connection was closed
	select {
	case <-conn.done:
	default:
		t.Fatal("connection was not closed on overflow")
	}
	assert.False(t, conn.enqueue(Message{Action: actionState}))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(readWait)))
	_, _, err := client.ReadMessage()
	require.Error(t, err)
}
