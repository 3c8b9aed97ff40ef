package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/relayhq/chatrelay/internal/api/apierr"
	"github.com/relayhq/chatrelay/internal/api/response"
	"github.com/relayhq/chatrelay/internal/services/status"
)

// StatusHandler serves the informational endpoints
type StatusHandler struct {
	status *status.Service
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(statusService *status.Service) *StatusHandler {
	return &StatusHandler{status: statusService}
}

// Stats returns current server statistics
func (h *StatusHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.status.Stats(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromService(stats))
}

// Health returns a static ok response
func (h *StatusHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}

// Home serves a plain status page at the root path
func (h *StatusHandler) Home(w http.ResponseWriter, r *http.Request) {
	stats, err := h.status.Stats(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "chatrelay is running\nconnected users: %d\nuptime: %s\n",
		stats.ConnectedUsers, stats.Uptime.Round(time.Second))
}
