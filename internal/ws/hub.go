package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/relayhq/chatrelay/internal/model"
	"github.com/relayhq/chatrelay/internal/relay"
)

// Hub tracks connected clients and fans server events out to them. Delivery
// is non-blocking: a client whose send buffer is full has the frame dropped
// rather than stalling the fan-out.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ConnID]*Client
	logger  *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnID]*Client),
		logger:  logger.With(slog.String("component", "hub")),
	}
}

// Ensure Hub implements the emitter interface
var _ relay.Emitter = (*Hub)(nil)

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client registered",
		slog.String("conn_id", string(client.id)),
		slog.Int("total_clients", count))
}

// Unregister removes a client and closes its send channel. Safe to call for
// a client that was already removed.
func (h *Hub) Unregister(id model.ConnID) {
	h.mu.Lock()
	client, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("client unregistered",
			slog.String("conn_id", string(id)),
			slog.Int("total_clients", count))
	}
}

// SendTo delivers an event to a single connection
func (h *Hub) SendTo(id model.ConnID, event model.ServerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event encoding failed", slog.String("error", err.Error()))
		return
	}

	// Hold the read lock across delivery. Unregister and Shutdown close the
	// send channel under the write lock, so releasing before deliver would
	// allow a send on a closed channel.
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[id]
	if !ok {
		return
	}

	h.deliver(client, data)
}

// Broadcast delivers an event to every connection
func (h *Hub) Broadcast(event model.ServerEvent) {
	h.fanOut(event, "")
}

// BroadcastExcept delivers an event to every connection but one
func (h *Hub) BroadcastExcept(id model.ConnID, event model.ServerEvent) {
	h.fanOut(event, id)
}

// fanOut encodes the event once and delivers it to every client, skipping
// the excluded connection if one is given.
func (h *Hub) fanOut(event model.ServerEvent, skip model.ConnID) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event encoding failed", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.clients {
		if id == skip {
			continue
		}
		h.deliver(client, data)
	}
}

func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn("frame dropped - client buffer full",
			slog.String("conn_id", string(client.id)))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every client's send channel, which ends their write loops
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := len(h.clients)
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
	h.logger.Info("hub shut down", slog.Int("disconnected_clients", count))
}
