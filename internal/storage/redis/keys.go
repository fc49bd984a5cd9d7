package redis

import (
	"fmt"

	"github.com/tomkite/dropfour/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "dropfour"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the (room, username) -> player_id index
func usernameIndexKey(roomID model.RoomID, username string) string {
	return fmt.Sprintf("%s:idx:username:%s:%s", keyPrefix, roomID, username)
}

// playersForRoomIndexKey returns the Redis key for the SET of players in a room
func playersForRoomIndexKey(roomID model.RoomID) string {
	return fmt.Sprintf("%s:idx:players_for_room:%s", keyPrefix, roomID)
}

// gameKey returns the Redis key for a room's Game
func gameKey(roomID model.RoomID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, roomID)
}
