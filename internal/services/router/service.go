package router

import (
	"log/slog"
	"time"

	"github.com/relayhq/chatrelay/internal/dependencies/clock"
	"github.com/relayhq/chatrelay/internal/model"
)

// Resolver resolves a connection to the username it joined with
type Resolver interface {
	Lookup(id model.ConnID) (string, bool)
}

// Service validates and stamps inbound chat messages. The sender identity is
// always resolved through the registry; a username asserted by the client is
// ignored. Text is passed through verbatim with no trimming and no length cap
// (the transport applies its own frame-size limit as a connection guard).
type Service struct {
	resolver Resolver
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new message router
func New(resolver Resolver, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		resolver: resolver,
		clock:    clk,
		logger:   logger.With(slog.String("component", "router")),
	}
}

// Route builds the broadcast message for an inbound chat event. It fails with
// ErrNotJoined if the connection has not successfully joined. The client
// timestamp is used when present and non-empty; otherwise the current server
// time is stamped.
func (s *Service) Route(id model.ConnID, text, clientTimestamp string) (model.ChatMessage, error) {
	username, ok := s.resolver.Lookup(id)
	if !ok {
		return model.ChatMessage{}, model.ErrNotJoined
	}

	timestamp := clientTimestamp
	if timestamp == "" {
		timestamp = s.clock.Now().UTC().Format(time.RFC3339)
	}

	s.logger.Debug("message routed", slog.String("username", username))
	return model.ChatMessage{
		Text:      text,
		Username:  username,
		Timestamp: timestamp,
		Conn:      id,
	}, nil
}
