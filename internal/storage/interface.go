package storage

import (
	"context"
)

// PresenceStore mirrors the live user list so that out-of-process tooling
// (the stats endpoint, operational dashboards) can read it without touching
// the in-memory registry. The registry remains the source of truth; writes
// here are best-effort and a stale mirror is acceptable.
type PresenceStore interface {
	// SavePresence replaces the mirrored user list with the given snapshot
	SavePresence(ctx context.Context, users []string) error

	// Presence returns the mirrored user list. An empty mirror yields an
	// empty list, not an error.
	Presence(ctx context.Context) ([]string, error)
}
