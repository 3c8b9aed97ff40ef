package relay

import (
	"context"
	"log/slog"

	"github.com/relayhq/chatrelay/internal/model"
	"github.com/relayhq/chatrelay/internal/services/presence"
	"github.com/relayhq/chatrelay/internal/services/registry"
	"github.com/relayhq/chatrelay/internal/services/router"
	"github.com/relayhq/chatrelay/internal/storage"
)

// Emitter delivers server events to connections. The transport layer
// implements it; delivery is fire-and-forget and a slow receiver never
// blocks the caller.
type Emitter interface {
	// SendTo delivers an event to a single connection
	SendTo(id model.ConnID, event model.ServerEvent)
	// Broadcast delivers an event to every connection, the subject included
	Broadcast(event model.ServerEvent)
	// BroadcastExcept delivers an event to every connection but one
	BroadcastExcept(id model.ConnID, event model.ServerEvent)
}

// Handler drives the session lifecycle. It owns the ordering rules: every
// registry mutation and the emission of its events happen before the next
// event on the same connection is processed.
type Handler struct {
	logger   *slog.Logger
	registry *registry.Service
	router   *router.Service
	presence *presence.Service
	emitter  Emitter
	store    storage.PresenceStore
}

// NewHandler creates a new lifecycle handler
func NewHandler(
	logger *slog.Logger,
	reg *registry.Service,
	rtr *router.Service,
	pres *presence.Service,
	emitter Emitter,
	store storage.PresenceStore,
) *Handler {
	return &Handler{
		logger:   logger.With(slog.String("component", "relay")),
		registry: reg,
		router:   rtr,
		presence: pres,
		emitter:  emitter,
		store:    store,
	}
}

// HandleEvent processes one inbound event for a session. Errors are reported
// to the requester only, as events; they never tear down the connection and
// never reach other sessions.
func (h *Handler) HandleEvent(ctx context.Context, session *Session, event model.ClientEvent) {
	if session.Terminated() {
		return
	}

	switch event.Type {
	case model.EventJoin:
		h.handleJoin(ctx, session, event)
	case model.EventMessage:
		h.handleMessage(ctx, session, event)
	case model.EventLeave:
		h.handleLeave(ctx, session)
	default:
		h.logger.Warn("unknown event type dropped",
			slog.String("conn_id", string(session.ID)),
			slog.String("type", string(event.Type)))
	}
}

// HandleDisconnect runs when the transport drops. It is safe to call after an
// explicit leave already terminated the session.
func (h *Handler) HandleDisconnect(ctx context.Context, session *Session) {
	h.terminate(ctx, session)
}

func (h *Handler) handleJoin(ctx context.Context, session *Session, event model.ClientEvent) {
	view, err := h.registry.Join(session.ID, event.Username)
	if err != nil {
		h.emitter.SendTo(session.ID, h.presence.JoinFailure(err))
		return
	}

	session.state = StateJoined

	// Mirror before emitting, so a confirmation observed by the client
	// implies the stats endpoint already reflects the join
	h.mirrorPresence(ctx, view.Users)

	toJoiner, toOthers := h.presence.JoinEvents(view)
	h.emitter.SendTo(session.ID, toJoiner)
	h.emitter.BroadcastExcept(session.ID, toOthers)
}

func (h *Handler) handleMessage(ctx context.Context, session *Session, event model.ClientEvent) {
	msg, err := h.router.Route(session.ID, event.Text, event.Timestamp)
	if err != nil {
		h.emitter.SendTo(session.ID, h.presence.JoinFailure(err))
		return
	}

	h.emitter.Broadcast(h.presence.MessageEvent(msg))
}

func (h *Handler) handleLeave(ctx context.Context, session *Session) {
	h.terminate(ctx, session)
}

// terminate releases the session's username, if it held one, and announces
// the departure. Idempotent: a session only transitions to terminated once,
// and a session that never joined produces no announcement.
func (h *Handler) terminate(ctx context.Context, session *Session) {
	if session.Terminated() {
		return
	}
	session.state = StateTerminated

	username, users, ok := h.registry.Leave(session.ID)
	if !ok {
		return
	}

	h.mirrorPresence(ctx, users)
	h.emitter.BroadcastExcept(session.ID, h.presence.LeaveEvent(username, users))
}

// mirrorPresence pushes the post-mutation user list to the presence mirror.
// Best-effort: a mirror failure is logged and never surfaces to sessions.
func (h *Handler) mirrorPresence(ctx context.Context, users []string) {
	if err := h.store.SavePresence(ctx, users); err != nil {
		h.logger.Warn("presence mirror update failed", slog.String("error", err.Error()))
	}
}
