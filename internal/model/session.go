package model

// ConnID uniquely identifies one transport connection for its lifetime.
// It is opaque to everything except the transport layer that minted it.
type ConnID string

// JoinedView is what a successful join produces: the accepted display name
// and the full user list as it stood immediately after insertion.
type JoinedView struct {
	Username string
	Users    []string
}
