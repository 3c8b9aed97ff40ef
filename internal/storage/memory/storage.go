package memory

import (
	"context"
	"sync"

	"github.com/relayhq/chatrelay/internal/storage"
)

// Storage is an in-memory implementation of the presence mirror
type Storage struct {
	mu    sync.RWMutex
	users []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.PresenceStore = (*Storage)(nil)

func (s *Storage) SavePresence(ctx context.Context, users []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make([]string, len(users))
	copy(s.users, users)
	return nil
}

func (s *Storage) Presence(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]string, len(s.users))
	copy(result, s.users)
	return result, nil
}
