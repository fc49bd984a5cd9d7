package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tomkite/dropfour/internal/model"
	"github.com/tomkite/dropfour/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms         map[model.RoomID]*model.Room
	players       map[model.PlayerID]*model.Player
	games         map[model.RoomID]*model.Game
	usernameIndex map[usernameKey]model.PlayerID
}

// usernameKey indexes username uniqueness per room
type usernameKey struct {
	roomID   model.RoomID
	username string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:         make(map[model.RoomID]*model.Room),
		players:       make(map[model.PlayerID]*model.Player),
		games:         make(map[model.RoomID]*model.Game),
		usernameIndex: make(map[usernameKey]model.PlayerID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Drop the room and its game together
	delete(s.rooms, id)
	delete(s.games, id)
	return nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *player
	s.players[player.ID] = &clone
	s.usernameIndex[usernameKey{roomID: player.RoomID, username: player.Username}] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	clone := *player
	return &clone, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return nil
	}
	delete(s.usernameIndex, usernameKey{roomID: player.RoomID, username: player.Username})
	delete(s.players, id)
	return nil
}

func (s *Storage) GetPlayersForRoom(ctx context.Context, roomID model.RoomID) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var players []*model.Player
	for _, p := range s.players {
		if p.RoomID == roomID {
			clone := *p
			players = append(players, &clone)
		}
	}
	// Join order
	sort.Slice(players, func(i, j int) bool {
		if players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].ID < players[j].ID
		}
		return players[i].JoinedAt.Before(players[j].JoinedAt)
	})
	return players, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, roomID model.RoomID, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[usernameKey{roomID: roomID, username: username}]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	clone := *player
	return &clone, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.RoomID] = cloneGame(game)
	return nil
}

func (s *Storage) GetGameForRoom(ctx context.Context, roomID model.RoomID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[roomID]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return cloneGame(game), nil
}

func (s *Storage) DeleteGameForRoom(ctx context.Context, roomID model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, roomID)
	return nil
}

// Records are copied on the way in and out so callers never share state
// with the store, matching the redis backend's decode-fresh behavior.

func cloneRoom(r *model.Room) *model.Room {
	clone := *r
	clone.Players = append([]model.PlayerID(nil), r.Players...)
	return &clone
}

func cloneGame(g *model.Game) *model.Game {
	clone := *g
	clone.Players = append([]model.PlayerID(nil), g.Players...)
	if g.Board != nil {
		clone.Board = model.NewBoard()
		for row := range g.Board.Cells {
			copy(clone.Board.Cells[row], g.Board.Cells[row])
		}
	}
	return &clone
}
