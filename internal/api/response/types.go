package response

import (
	"time"

	"github.com/relayhq/chatrelay/internal/services/status"
)

// StatsResponse is the response for the stats endpoint
type StatsResponse struct {
	ConnectedUsers int      `json:"connected_users"`
	Usernames      []string `json:"usernames"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
	Timestamp      string   `json:"timestamp"`
}

// StatsFromService converts service stats to a StatsResponse
func StatsFromService(s status.Stats) StatsResponse {
	return StatsResponse{
		ConnectedUsers: s.ConnectedUsers,
		Usernames:      s.Usernames,
		UptimeSeconds:  int64(s.Uptime.Seconds()),
		Timestamp:      s.Timestamp.UTC().Format(time.RFC3339),
	}
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
