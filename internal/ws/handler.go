package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/relayhq/chatrelay/internal/dependencies/ident"
	"github.com/relayhq/chatrelay/internal/model"
	"github.com/relayhq/chatrelay/internal/relay"
)

// Handler upgrades HTTP requests to websocket sessions
type Handler struct {
	hub      *Hub
	relay    *relay.Handler
	ident    ident.Generator
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new websocket handler
func NewHandler(hub *Hub, relayHandler *relay.Handler, gen ident.Generator, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		relay:  relayHandler,
		ident:  gen,
		logger: logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from arbitrary origins; there is no
			// credentialed state to protect
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and runs the connection's pumps. The write
// pump runs in its own goroutine; the read pump runs on this request
// goroutine and holds the connection open.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := model.ConnID(h.ident.NewConnID())
	client := NewClient(id, conn, h.hub, h.relay, h.logger)
	h.hub.Register(client)

	h.logger.Info("connection opened",
		slog.String("conn_id", string(id)),
		slog.String("remote_addr", r.RemoteAddr))

	go client.writePump()
	client.readPump(r.Context())
}
