package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/minigolf-go/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Largest inbound frame accepted
	maxMessageSize = 64 * 1024

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Handler consumes inbound events of a connection
type Handler interface {
	Dispatch(ctx context.Context, id model.ConnID, event model.EventType, data json.RawMessage)
	Disconnect(ctx context.Context, id model.ConnID) error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the game client may be served from anywhere
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is a single websocket connection
type Client struct {
	hub         *Hub
	id          model.ConnID
	conn        *websocket.Conn
	send        chan []byte
	connectedAt time.Time
	closeOnce   sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:         hub,
		id:          model.ConnID(uuid.NewString()),
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ID returns the connection id the client was assigned
func (c *Client) ID() model.ConnID {
	return c.id
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// ServeWS upgrades the request and pumps frames between the socket and
// handler until the peer goes away
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, handler Handler) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written an error response
		hub.logger.Warn("ws upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(hub, conn)
	hub.Register(client)

	go client.writePump()
	client.readPump(r.Context(), handler)

	// the request context may already be gone by now
	ctx := context.WithoutCancel(r.Context())
	if err := handler.Disconnect(ctx, client.id); err != nil {
		hub.logger.Error("ws disconnect handling failed",
			slog.String("conn_id", string(client.id)),
			slog.Any("error", err))
	}
	hub.Unregister(client)
}

func (c *Client) readPump(ctx context.Context, handler Handler) {
	defer func() { _ = c.conn.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("ws read ended",
					slog.String("conn_id", string(c.id)),
					slog.Any("error", err))
			}
			return
		}

		env, err := Decode(frame)
		if err != nil || env.Event == "" {
			c.hub.logger.Debug("ws malformed frame dropped", slog.String("conn_id", string(c.id)))
			continue
		}
		handler.Dispatch(ctx, c.id, env.Event, env.Data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
