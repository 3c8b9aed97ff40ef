package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/relayhq/chatrelay/internal/dependencies/clock"
	"github.com/relayhq/chatrelay/internal/dependencies/ident"
	"github.com/relayhq/chatrelay/internal/relay"
	"github.com/relayhq/chatrelay/internal/services/presence"
	"github.com/relayhq/chatrelay/internal/services/registry"
	"github.com/relayhq/chatrelay/internal/services/router"
	"github.com/relayhq/chatrelay/internal/services/status"
	"github.com/relayhq/chatrelay/internal/storage"
	"github.com/relayhq/chatrelay/internal/storage/memory"
	redisstorage "github.com/relayhq/chatrelay/internal/storage/redis"
	"github.com/relayhq/chatrelay/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.PresenceStore

	// External dependencies
	Clock clock.Clock
	Ident ident.Generator

	// Services
	Registry *registry.Service
	Router   *router.Service
	Presence *presence.Service
	Status   *status.Service

	// Transport and lifecycle
	Hub       *ws.Hub
	Relay     *relay.Handler
	WSHandler *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the presence mirror backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.PresenceStore
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	gen := ident.New()

	return newWithDependencies(store, clk, gen, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.PresenceStore, clk clock.Clock, gen ident.Generator, logger *slog.Logger) *App {
	// Create services
	registryService := registry.New(logger)
	routerService := router.New(registryService, clk, logger)
	presenceService := presence.New(logger)
	statusService := status.New(store, clk, logger)

	// Transport and lifecycle
	hub := ws.NewHub(logger)
	relayHandler := relay.NewHandler(logger, registryService, routerService, presenceService, hub, store)
	wsHandler := ws.NewHandler(hub, relayHandler, gen, logger)

	return &App{
		Store:     store,
		Clock:     clk,
		Ident:     gen,
		Registry:  registryService,
		Router:    routerService,
		Presence:  presenceService,
		Status:    statusService,
		Hub:       hub,
		Relay:     relayHandler,
		WSHandler: wsHandler,
	}
}
