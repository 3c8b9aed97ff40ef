package model

// ClientEventType identifies an inbound event from a connection
type ClientEventType string

const (
	// EventJoin claims a username for the connection
	EventJoin ClientEventType = "join"
	// EventMessage sends a chat message to everyone
	EventMessage ClientEventType = "message"
	// EventLeave ends the session explicitly
	EventLeave ClientEventType = "leave"
)

// ClientEvent is the wire format for inbound events
type ClientEvent struct {
	Type      ClientEventType `json:"type"`
	Username  string          `json:"username,omitempty"`
	Text      string          `json:"text,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// ServerEventType identifies an outbound event to one or more connections
type ServerEventType string

const (
	// EventJoinSucceeded goes to the requester only
	EventJoinSucceeded ServerEventType = "join-succeeded"
	// EventJoinFailed goes to the requester only
	EventJoinFailed ServerEventType = "join-failed"
	// EventUserJoined goes to every session except the new one
	EventUserJoined ServerEventType = "user-joined"
	// EventUserLeft goes to every remaining session
	EventUserLeft ServerEventType = "user-left"
	// EventChatMessage goes to every session, sender included
	EventChatMessage ServerEventType = "message"
)

// ServerEvent is the wire format for outbound events
type ServerEvent struct {
	Type      ServerEventType `json:"type"`
	Username  string          `json:"username,omitempty"`
	Users     []string        `json:"users,omitempty"`
	Text      string          `json:"text,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Error     string          `json:"error,omitempty"`
}
