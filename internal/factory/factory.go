package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/minigolf-go/internal/dependencies/clock"
	"github.com/mcoot/minigolf-go/internal/dependencies/random"
	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/mcoot/minigolf-go/internal/realtime/ws"
	"github.com/mcoot/minigolf-go/internal/services/course"
	"github.com/mcoot/minigolf-go/internal/services/player"
	"github.com/mcoot/minigolf-go/internal/services/room"
	"github.com/mcoot/minigolf-go/internal/services/session"
	"github.com/mcoot/minigolf-go/internal/storage"
	"github.com/mcoot/minigolf-go/internal/storage/memory"
	redisstorage "github.com/mcoot/minigolf-go/internal/storage/redis"
	"github.com/mcoot/minigolf-go/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Players    *player.Registry
	Rooms      *room.Registry
	Controller *session.Controller

	// Realtime
	Hub        *ws.Hub
	HubManager *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// RoomConfig holds room registry settings (optional)
	// If zero value, defaults to room.DefaultConfig()
	RoomConfig room.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
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

	roomCfg := cfg.RoomConfig
	if roomCfg.BcryptCost == 0 {
		roomCfg = room.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), roomCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, roomCfg room.Config, logger *slog.Logger) *App {
	players := player.New(store, clk)
	rooms := room.New(store, clk, rnd, roomCfg, logger)
	hubManager := sse.NewHubManager(logger)
	hub := ws.NewHub(hubManager, logger)
	controller := session.NewController(players, rooms, course.DefaultHole(), hub, clk, logger)

	// swept rooms lose their spectator hubs too
	controller.OnSweep(func(removed []model.RoomID) {
		for _, id := range removed {
			hubManager.RemoveHub(id)
		}
		hubManager.CleanupEmptyHubs()
	})

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		Players:    players,
		Rooms:      rooms,
		Controller: controller,
		Hub:        hub,
		HubManager: hubManager,
	}
}

// Close releases the storage connection, if the backend holds one
func (a *App) Close() error {
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
