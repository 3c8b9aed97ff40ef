package status

import (
	"context"
	"log/slog"
	"time"

	"github.com/relayhq/chatrelay/internal/dependencies/clock"
	"github.com/relayhq/chatrelay/internal/storage"
)

// Stats is an informational snapshot of the relay. It is read from the
// presence mirror rather than the live registry, so it may trail the
// broadcast stream slightly.
type Stats struct {
	ConnectedUsers int
	Usernames      []string
	Uptime         time.Duration
	Timestamp      time.Time
}

// Service reports server statistics
type Service struct {
	store   storage.PresenceStore
	clock   clock.Clock
	logger  *slog.Logger
	started time.Time
}

// New creates a status service anchored to the current time as server start
func New(store storage.PresenceStore, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "status")),
		started: clk.Now(),
	}
}

// Stats returns the current server statistics
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	users, err := s.store.Presence(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := s.clock.Now()
	return Stats{
		ConnectedUsers: len(users),
		Usernames:      users,
		Uptime:         now.Sub(s.started),
		Timestamp:      now,
	}, nil
}
