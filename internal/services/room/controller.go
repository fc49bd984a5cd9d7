package room

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomkite/dropfour/internal/dependencies/clock"
	"github.com/tomkite/dropfour/internal/dependencies/random"
	"github.com/tomkite/dropfour/internal/locks"
	"github.com/tomkite/dropfour/internal/model"
	"github.com/tomkite/dropfour/internal/services/game"
	"github.com/tomkite/dropfour/internal/storage"
)

// ComputerUsername is the display name reserved for the synthetic opponent
const ComputerUsername = "Computer"

// RoomInfo is the read-model returned to clients probing a room
type RoomInfo struct {
	Room        *model.Room
	Players     []*model.Player
	GameState   model.GameState
	HasPassword bool
}

// Controller manages room lifecycle and occupancy
type Controller struct {
	storage  storage.Storage
	games    game.ControllerInterface
	locks    *locks.Table
	clock    clock.Clock
	random   random.Random
	notifier game.Notifier
	logger   *slog.Logger
}

// NewController creates a new room Controller
func NewController(
	storage storage.Storage,
	games game.ControllerInterface,
	lockTable *locks.Table,
	clock clock.Clock,
	random random.Random,
	notifier game.Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		games:    games,
		locks:    lockTable,
		clock:    clock,
		random:   random,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateRoom registers a new empty room. An empty password leaves the
// room open; otherwise joins must present it. The room's game is created
// immediately in the waiting state.
func (c *Controller) CreateRoom(ctx context.Context, name, password string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidRoomName
	}

	passwordHash := ""
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		passwordHash = string(hash)
	}

	now := c.clock.Now()
	room := &model.Room{
		ID:           model.RoomID(c.random.UUID()),
		Name:         name,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	lock := c.locks.For(room.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	if _, err := c.games.CreateGame(ctx, room.ID); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("name", room.Name),
		slog.Bool("has_password", room.HasPassword()),
	)

	return room, nil
}

// JoinRoom seats a player in a free slot. Fails when the room is full,
// the password is wrong, or the username is already taken in this room.
// Filling the second slot starts the game.
func (c *Controller) JoinRoom(ctx context.Context, roomID model.RoomID, password, username string) (*model.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.ErrInvalidUsername
	}

	lock := c.locks.For(roomID)
	lock.Lock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	if err := c.admit(ctx, room, password, username, 1); err != nil {
		lock.Unlock()
		return nil, err
	}

	player, err := c.seat(ctx, room, username, false)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	started := room.IsFull()
	lock.Unlock()

	if started {
		if _, err := c.games.Activate(ctx, roomID); err != nil {
			return nil, err
		}
	}
	return player, nil
}

// JoinVsComputer seats a human player and atomically fills the opposing
// slot with a synthetic computer player, starting the game immediately.
// Both seats must be free; the computer slot bypasses the password check.
func (c *Controller) JoinVsComputer(ctx context.Context, roomID model.RoomID, password, username string) (*model.Player, *model.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil, model.ErrInvalidUsername
	}

	lock := c.locks.For(roomID)
	lock.Lock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		lock.Unlock()
		return nil, nil, err
	}

	if err := c.admit(ctx, room, password, username, 2); err != nil {
		lock.Unlock()
		return nil, nil, err
	}

	human, err := c.seat(ctx, room, username, false)
	if err != nil {
		lock.Unlock()
		return nil, nil, err
	}
	computer, err := c.seat(ctx, room, ComputerUsername, true)
	if err != nil {
		lock.Unlock()
		return nil, nil, err
	}
	lock.Unlock()

	if _, err := c.games.Activate(ctx, roomID); err != nil {
		return nil, nil, err
	}
	return human, computer, nil
}

// admit runs the checks shared by the join paths. Caller holds the room
// lock, so the capacity check and the later insert are atomic: two
// concurrent joins cannot both take the last seat.
func (c *Controller) admit(ctx context.Context, room *model.Room, password, username string, seats int) error {
	if len(room.Players)+seats > model.RoomCapacity {
		return model.ErrRoomFull
	}

	if room.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte(password)); err != nil {
			return model.ErrWrongPassword
		}
	}

	if _, err := c.storage.GetPlayerByUsername(ctx, room.ID, username); err == nil {
		return model.ErrUsernameTaken
	}

	return nil
}

// seat inserts a player into the room record. Caller holds the room lock
// and has already run the admission checks.
func (c *Controller) seat(ctx context.Context, room *model.Room, username string, isComputer bool) (*model.Player, error) {
	now := c.clock.Now()
	player := &model.Player{
		ID:         model.PlayerID(c.random.UUID()),
		Username:   username,
		RoomID:     room.ID,
		IsComputer: isComputer,
		JoinedAt:   now,
	}

	room.Players = append(room.Players, player.ID)
	room.UpdatedAt = now

	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("room_id", string(room.ID)),
		slog.String("player_id", string(player.ID)),
		slog.String("username", username),
		slog.Bool("is_computer", isComputer),
	)

	if c.notifier != nil {
		c.notifier.Publish(ctx, model.Event{
			Type:      model.EventPlayerJoined,
			Timestamp: now,
			RoomID:    room.ID,
			Payload: model.PlayerJoinedPayload{
				PlayerID:   player.ID,
				Username:   player.Username,
				IsComputer: isComputer,
			},
		})
	}

	return player, nil
}

// GetRoomInfo returns the room, its seated players in join order, and the
// current game state. The password hash is never included.
func (c *Controller) GetRoomInfo(ctx context.Context, roomID model.RoomID) (*RoomInfo, error) {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	players, err := c.storage.GetPlayersForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	g, err := c.storage.GetGameForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	info := &RoomInfo{
		Room:        room,
		Players:     players,
		GameState:   g.State,
		HasPassword: room.HasPassword(),
	}
	info.Room.PasswordHash = ""
	return info, nil
}

// GetPlayer resolves a seated player, verifying room membership
func (c *Controller) GetPlayer(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Player, error) {
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, model.ErrUnknownPlayer
	}
	if player.RoomID != roomID {
		return nil, model.ErrUnknownPlayer
	}
	return player, nil
}

// LeaveRoom removes a player from the room. Any in-flight game returns to
// the waiting state; a room left empty (or with only its computer player)
// is deleted along with its game.
func (c *Controller) LeaveRoom(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) error {
	left, empty, err := c.unseatPlayer(ctx, roomID, playerID)
	if err != nil {
		return err
	}
	if empty {
		return c.deleteRoom(ctx, roomID)
	}
	_, err = c.games.Deactivate(ctx, roomID, left)
	return err
}

func (c *Controller) unseatPlayer(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (model.PlayerID, bool, error) {
	lock := c.locks.For(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return "", false, err
	}
	if !room.HasPlayer(playerID) {
		return "", false, model.ErrUnknownPlayer
	}

	remaining := make([]model.PlayerID, 0, len(room.Players))
	for _, id := range room.Players {
		if id != playerID {
			remaining = append(remaining, id)
		}
	}
	room.Players = remaining
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.DeletePlayer(ctx, playerID); err != nil {
		return "", false, err
	}

	// A lone computer opponent does not keep a room alive
	empty := len(room.Players) == 0
	if !empty && len(room.Players) == 1 {
		if sole, err := c.storage.GetPlayer(ctx, room.Players[0]); err == nil && sole.IsComputer {
			if err := c.storage.DeletePlayer(ctx, sole.ID); err != nil {
				return "", false, err
			}
			room.Players = nil
			empty = true
		}
	}

	if empty {
		room.Active = false
	}
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return "", false, err
	}

	c.logger.Info("player left",
		slog.String("room_id", string(roomID)),
		slog.String("player_id", string(playerID)),
		slog.Bool("room_empty", empty),
	)

	return playerID, empty, nil
}

func (c *Controller) deleteRoom(ctx context.Context, roomID model.RoomID) error {
	lock := c.locks.For(roomID)
	lock.Lock()
	defer lock.Unlock()

	if err := c.storage.DeleteRoom(ctx, roomID); err != nil {
		return err
	}

	c.logger.Info("room deleted", slog.String("room_id", string(roomID)))
	return nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, name, password string) (*model.Room, error)
	JoinRoom(ctx context.Context, roomID model.RoomID, password, username string) (*model.Player, error)
	JoinVsComputer(ctx context.Context, roomID model.RoomID, password, username string) (*model.Player, *model.Player, error)
	GetRoomInfo(ctx context.Context, roomID model.RoomID) (*RoomInfo, error)
	GetPlayer(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Player, error)
	LeaveRoom(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
