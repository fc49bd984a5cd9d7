package storage

import (
	"context"

	"github.com/tomkite/dropfour/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	GetPlayersForRoom(ctx context.Context, roomID model.RoomID) ([]*model.Player, error)
	GetPlayerByUsername(ctx context.Context, roomID model.RoomID, username string) (*model.Player, error)

	// Game operations (one game per room)
	SaveGame(ctx context.Context, game *model.Game) error
	GetGameForRoom(ctx context.Context, roomID model.RoomID) (*model.Game, error)
	DeleteGameForRoom(ctx context.Context, roomID model.RoomID) error
}
