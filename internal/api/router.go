package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relayhq/chatrelay/internal/api/handler"
	"github.com/relayhq/chatrelay/internal/api/middleware"
	"github.com/relayhq/chatrelay/internal/services/status"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	StatusService *status.Service

	// WSHandler serves the websocket endpoint. It is mounted outside the
	// logging middleware: an upgraded connection lives for the whole session
	// and per-request logging would only ever record the upgrade.
	WSHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	statusHandler := handler.NewStatusHandler(cfg.StatusService)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/stats", statusHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/health", statusHandler.Health).Methods(http.MethodGet)

	// Websocket endpoint; recovery only, no logging wrapper
	r.Handle("/ws", recoveryMiddleware(cfg.WSHandler)).Methods(http.MethodGet)

	// Plain status page
	r.HandleFunc("/", statusHandler.Home).Methods(http.MethodGet)

	return r
}
