package net

import (
	"context"
	stdlog "log"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// DefaultSendBuffer is the number of outbound messages queued per connection
// before further messages are dropped.
const DefaultSendBuffer = 64

const writeTimeout = 5 * time.Second

// Handler accepts relay WebSocket connections and feeds them to a Relay.
type Handler struct {
	Relay      *Relay
	SendBuffer int
	// AcceptOptions are passed to websocket.Accept. Nil allows any origin.
	AcceptOptions *websocket.AcceptOptions
}

// NewHandler creates a handler for the given relay.
func NewHandler(relay *Relay) *Handler {
	return &Handler{Relay: relay, SendBuffer: DefaultSendBuffer}
}

// wsConn is the relay-side view of one WebSocket connection.
type wsConn struct {
	id  string
	out chan []byte
}

func (c *wsConn) ID() string { return c.id }

// Send queues data for the writer goroutine, dropping it when the queue is full.
func (c *wsConn) Send(data []byte) {
	select {
	case c.out <- data:
	default:
		stdlog.Printf("relay: %s send buffer full, dropping message", c.id)
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts := h.AcceptOptions
	if opts == nil {
		opts = &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow connections from any origin
		}
	}
	ws, err := websocket.Accept(w, r, opts)
	if err != nil {
		stdlog.Printf("WebSocket accept error: %v", err)
		return
	}
	defer ws.CloseNow()

	size := h.SendBuffer
	if size <= 0 {
		size = DefaultSendBuffer
	}
	conn := &wsConn{id: uuid.NewString(), out: make(chan []byte, size)}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := h.Relay.Connect(conn); err != nil {
		ws.Close(websocket.StatusTryAgainLater, "relay unavailable")
		return
	}

	// Relay → WebSocket
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case data := <-conn.out:
				wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
				err := ws.Write(wctx, websocket.MessageText, data)
				wcancel()
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// WebSocket → relay
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			break
		}
		if err := h.Relay.Receive(conn, data); err != nil {
			break
		}
	}

	cancel()
	<-done
	_ = h.Relay.Disconnect(conn)
	ws.Close(websocket.StatusNormalClosure, "")
}
