package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// connection funnels every write through one goroutine; gorilla connections
// allow a single concurrent writer.
type connection struct {
	conn   *websocket.Conn
	outbox chan Message

	done      chan struct{}
	closeOnce sync.Once
}

func newConnection(conn *websocket.Conn, outboxSize int) *connection {
	return &connection{
		conn:   conn,
		outbox: make(chan Message, outboxSize),
		done:   make(chan struct{}),
	}
}

// enqueue never blocks. A client that falls a full outbox behind is dropped.
func (that *connection) enqueue(msg Message) bool {
	select {
	case <-that.done:
		return false
	default:
	}

	select {
	case that.outbox <- msg:
		return true
	default:
		that.close()
		return false
	}
}

func (that *connection) writeLoop(log *slog.Logger) {
	for {
		select {
		case <-that.done:
			return
		case msg := <-that.outbox:
			if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error("failed to set write deadline", "error", err)
			}

			if err := that.conn.WriteJSON(msg); err != nil {
				log.Warn("failed to write message", "action", msg.Action, "error", err)
				that.close()
				return
			}
		}
	}
}

func (that *connection) close() {
	that.closeOnce.Do(func() {
		close(that.done)
		_ = that.conn.Close()
	})
}
