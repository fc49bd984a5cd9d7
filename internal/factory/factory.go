package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/tomkite/dropfour/internal/dependencies/clock"
	"github.com/tomkite/dropfour/internal/dependencies/random"
	"github.com/tomkite/dropfour/internal/locks"
	"github.com/tomkite/dropfour/internal/services/bot"
	"github.com/tomkite/dropfour/internal/services/game"
	"github.com/tomkite/dropfour/internal/services/room"
	"github.com/tomkite/dropfour/internal/storage"
	"github.com/tomkite/dropfour/internal/storage/memory"
	redisstorage "github.com/tomkite/dropfour/internal/storage/redis"
	"github.com/tomkite/dropfour/internal/ws"
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
	Locks          *locks.Table
	BotStrategy    bot.Strategy
	GameController *game.Controller
	RoomController *room.Controller
	HubManager     *ws.HubManager
	Broadcaster    *ws.Broadcaster
	SessionManager *ws.SessionManager
}

// Config holds configuration for the application factory
type Config struct {
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

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	lockTable := locks.NewTable()
	hubManager := ws.NewHubManager(logger)
	broadcaster := ws.NewBroadcaster(hubManager, logger)
	strategy := bot.NewRandomStrategy(rnd)

	gameController := game.NewController(store, strategy, lockTable, clk, rnd, broadcaster, logger)
	roomController := room.NewController(store, gameController, lockTable, clk, rnd, broadcaster, logger)
	sessionManager := ws.NewSessionManager(hubManager, gameController, clk, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Locks:          lockTable,
		BotStrategy:    strategy,
		GameController: gameController,
		RoomController: roomController,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
		SessionManager: sessionManager,
	}
}
