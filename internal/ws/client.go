package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relayhq/chatrelay/internal/model"
	"github.com/relayhq/chatrelay/internal/relay"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping interval; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size
	maxMessageSize = 4096

	// Buffer size for outgoing frames
	sendBufferSize = 256
)

// Client is one websocket connection. Its read loop feeds events to the
// lifecycle handler sequentially; its write loop drains the send buffer the
// hub fills.
type Client struct {
	id      model.ConnID
	session *relay.Session
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
	handler *relay.Handler
	logger  *slog.Logger
}

// NewClient creates a client for an upgraded connection
func NewClient(id model.ConnID, conn *websocket.Conn, hub *Hub, handler *relay.Handler, logger *slog.Logger) *Client {
	return &Client{
		id:      id,
		session: relay.NewSession(id),
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		hub:     hub,
		handler: handler,
		logger:  logger.With(slog.String("conn_id", string(id))),
	}
}

// readPump reads frames until the connection drops or the session
// terminates, then unregisters the client and reports the disconnect.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c.id)
		c.handler.HandleDisconnect(ctx, c.session)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read failed", slog.String("error", err.Error()))
			}
			return
		}

		var event model.ClientEvent
		if err := json.Unmarshal(data, &event); err != nil {
			c.logger.Warn("malformed frame dropped", slog.String("error", err.Error()))
			continue
		}

		c.handler.HandleEvent(ctx, c.session, event)

		if c.session.Terminated() {
			c.closeGracefully()
			return
		}
	}
}

// writePump drains the send buffer and keeps the connection alive with
// pings. It exits when the hub closes the send channel or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// closeGracefully sends a close frame after an explicit leave so the peer
// sees a normal closure rather than a dropped connection.
func (c *Client) closeGracefully() {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
		time.Now().Add(writeWait),
	)
}
