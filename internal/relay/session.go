package relay

import (
	"github.com/relayhq/chatrelay/internal/model"
)

// SessionState is the lifecycle phase of one connection
type SessionState int

const (
	// StateConnected means the transport is open but no username is held
	StateConnected SessionState = iota
	// StateJoined means a username is held and broadcasts are delivered
	StateJoined
	// StateTerminated is terminal; the connection is defunct
	StateTerminated
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Session tracks the lifecycle of a single connection. All events for a
// connection are delivered sequentially by its read loop, so the state needs
// no locking.
type Session struct {
	ID    model.ConnID
	state SessionState
}

// NewSession creates a session in the connected state
func NewSession(id model.ConnID) *Session {
	return &Session{ID: id, state: StateConnected}
}

// State returns the current lifecycle state
func (s *Session) State() SessionState {
	return s.state
}

// Terminated reports whether the session has reached its terminal state
func (s *Session) Terminated() bool {
	return s.state == StateTerminated
}
