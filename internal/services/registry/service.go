package registry

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/relayhq/chatrelay/internal/model"
)

const (
	// MinUsernameLength is the minimum username length after trimming
	MinUsernameLength = 2
	// MaxUsernameLength is the maximum username length after trimming
	MaxUsernameLength = 20
)

// Service tracks which connection holds which username and enforces
// case-insensitive uniqueness. All operations are atomic: the connection map
// and the taken-name set are only ever mutated together under one lock, so a
// snapshot never observes a half-applied join or leave.
type Service struct {
	mu     sync.Mutex
	logger *slog.Logger

	// byConn maps a connection to its display-cased username.
	// taken maps the case-folded username back to the owning connection;
	// the two are a bijection up to case-folding.
	byConn map[model.ConnID]string
	taken  map[string]model.ConnID
}

// New creates an empty registry
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "registry")),
		byConn: make(map[model.ConnID]string),
		taken:  make(map[string]model.ConnID),
	}
}

// Join claims a username for a connection. The raw name is trimmed before
// validation; its original casing is preserved for display while uniqueness
// is checked against the case-folded form. A connection that already joined
// cannot join again: the first successful join wins.
//
// On success the returned view carries the user list as it stood immediately
// after insertion, so every observer of this join sees the same list.
func (s *Service) Join(id model.ConnID, raw string) (model.JoinedView, error) {
	name := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(name); n < MinUsernameLength || n > MaxUsernameLength {
		return model.JoinedView{}, model.ErrInvalidUsernameLength
	}
	folded := strings.ToLower(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, joined := s.byConn[id]; joined {
		return model.JoinedView{}, model.ErrUsernameTaken
	}
	if _, exists := s.taken[folded]; exists {
		return model.JoinedView{}, model.ErrUsernameTaken
	}

	s.byConn[id] = name
	s.taken[folded] = id

	s.logger.Info("user joined", slog.String("username", name))
	return model.JoinedView{Username: name, Users: s.snapshotLocked()}, nil
}

// Leave releases a connection's username. It is idempotent: leaving a
// connection that never joined, or already left, is a no-op reporting ok as
// false. The returned user list reflects the registry immediately after
// removal.
func (s *Service) Leave(id model.ConnID) (username string, users []string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, joined := s.byConn[id]
	if !joined {
		return "", nil, false
	}

	delete(s.byConn, id)
	delete(s.taken, strings.ToLower(name))

	s.logger.Info("user left", slog.String("username", name))
	return name, s.snapshotLocked(), true
}

// Lookup resolves a connection to its username, if it has joined
func (s *Service) Lookup(id model.ConnID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.byConn[id]
	return name, ok
}

// Snapshot returns all joined usernames in ascending lexicographic order,
// display casing preserved. Sorted order is part of the contract; callers
// must never see insertion order.
func (s *Service) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Count returns the number of joined sessions
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byConn)
}

func (s *Service) snapshotLocked() []string {
	users := lo.Values(s.byConn)
	sort.Strings(users)
	return users
}
