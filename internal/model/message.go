package model

// ChatMessage is a transient broadcast message. It is constructed on receipt,
// fanned out once, and never stored.
type ChatMessage struct {
	Text      string
	Username  string // resolved server-side, never taken from the client
	Timestamp string // RFC 3339; client-supplied if present, else server time
	Conn      ConnID // originating connection
}
