package game

import (
	"context"
	"log/slog"

	"github.com/tomkite/dropfour/internal/dependencies/clock"
	"github.com/tomkite/dropfour/internal/dependencies/random"
	"github.com/tomkite/dropfour/internal/locks"
	"github.com/tomkite/dropfour/internal/model"
	"github.com/tomkite/dropfour/internal/services/board"
	"github.com/tomkite/dropfour/internal/services/bot"
	"github.com/tomkite/dropfour/internal/storage"
)

// Notifier delivers an event to every channel bound to the event's room.
// Publish is called while the room lock is held and must not block; sinks
// that cannot keep up drop rather than stall the move pipeline.
type Notifier interface {
	Publish(ctx context.Context, event model.Event)
}

// Controller manages the per-room game state machine and turn flow.
// All mutating operations serialize through the room's lock, so turn
// alternation and broadcast atomicity hold under concurrent channels.
type Controller struct {
	storage  storage.Storage
	strategy bot.Strategy
	locks    *locks.Table
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	notifier Notifier
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	strategy bot.Strategy,
	lockTable *locks.Table,
	clock clock.Clock,
	random random.Random,
	notifier Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		strategy: strategy,
		locks:    lockTable,
		clock:    clock,
		random:   random,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateGame initializes the waiting game for a freshly created room
func (c *Controller) CreateGame(ctx context.Context, roomID model.RoomID) (*model.Game, error) {
	now := c.clock.Now()
	game := &model.Game{
		ID:        model.GameID(c.random.UUID()),
		RoomID:    roomID,
		State:     model.GameStateWaiting,
		Board:     model.NewBoard(),
		Turn:      0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("room_id", string(roomID)),
	)

	return game, nil
}

// Activate transitions the room's game to in_progress once the second
// slot fills. The player snapshot is taken in join order; the first-joined
// player moves first. Idempotent for an already running game.
func (c *Controller) Activate(ctx context.Context, roomID model.RoomID) ([]model.Event, error) {
	lock := c.locks.For(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsFull() {
		return nil, model.ErrGameNotStarted
	}

	game, err := c.storage.GetGameForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if game.State == model.GameStateInProgress {
		return nil, nil
	}

	game.Players = append([]model.PlayerID(nil), room.Players...)
	game.State = model.GameStateInProgress
	game.Turn = 0
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("game_id", string(game.ID)),
		slog.String("room_id", string(roomID)),
		slog.String("first_player", string(game.CurrentPlayer())),
	)

	events := []model.Event{c.newEvent(model.EventState, roomID, model.StatePayload{
		Board:     game.Board,
		Row:       -1,
		Col:       -1,
		Turn:      game.CurrentPlayer(),
		MoveCount: game.MoveCount,
	})}
	c.publish(ctx, events)
	return events, nil
}

// Move handles a player dropping a disc into a column. On success the
// resulting events are published and returned in order. If the move hands
// the turn to a computer-controlled player, exactly one computer reply
// runs through the same pipeline before returning.
func (c *Controller) Move(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, column int) ([]model.Event, error) {
	lock := c.locks.For(roomID)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGameForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	events, err := c.applyMove(game, playerID, column)
	if err != nil {
		return nil, err
	}

	// One bounded computer reply per human move
	if game.State == model.GameStateInProgress {
		next, err := c.storage.GetPlayer(ctx, game.CurrentPlayer())
		if err == nil && next.IsComputer {
			col := c.strategy.ChooseColumn(game)
			replyEvents, err := c.applyMove(game, next.ID, col)
			if err != nil {
				c.logger.Error("computer move rejected",
					slog.String("room_id", string(roomID)),
					slog.Int("column", col),
					slog.String("error", err.Error()),
				)
			} else {
				events = append(events, replyEvents...)
			}
		}
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.publish(ctx, events)
	return events, nil
}

// applyMove validates and applies a single drop. Caller holds the room
// lock and persists the game afterwards.
func (c *Controller) applyMove(game *model.Game, playerID model.PlayerID, column int) ([]model.Event, error) {
	switch game.State {
	case model.GameStateWaiting:
		return nil, model.ErrGameNotStarted
	case model.GameStateFinished:
		return nil, model.ErrGameOver
	}

	if game.CurrentPlayer() != playerID {
		return nil, model.ErrNotYourTurn
	}

	slot := 0
	for i, id := range game.Players {
		if id == playerID {
			slot = i
		}
	}

	row, err := board.Drop(game.Board, column, model.DiscFor(slot))
	if err != nil {
		return nil, err
	}

	game.MoveCount++
	game.UpdatedAt = c.clock.Now()

	roomID := game.RoomID

	switch {
	case board.CheckWin(game.Board, row, column):
		game.State = model.GameStateFinished
		game.Winner = playerID
		c.logger.Info("game won",
			slog.String("game_id", string(game.ID)),
			slog.String("room_id", string(roomID)),
			slog.String("winner", string(playerID)),
			slog.Int("move_count", game.MoveCount),
		)
		return []model.Event{
			c.newEvent(model.EventState, roomID, model.StatePayload{
				Board:     game.Board,
				Row:       row,
				Col:       column,
				Turn:      playerID,
				MoveCount: game.MoveCount,
			}),
			c.newEvent(model.EventWin, roomID, model.WinPayload{
				Winner: playerID,
				Board:  game.Board,
			}),
		}, nil

	case board.CheckDraw(game.Board):
		game.State = model.GameStateFinished
		game.Winner = ""
		c.logger.Info("game drawn",
			slog.String("game_id", string(game.ID)),
			slog.String("room_id", string(roomID)),
			slog.Int("move_count", game.MoveCount),
		)
		return []model.Event{
			c.newEvent(model.EventState, roomID, model.StatePayload{
				Board:     game.Board,
				Row:       row,
				Col:       column,
				Turn:      playerID,
				MoveCount: game.MoveCount,
			}),
			c.newEvent(model.EventDraw, roomID, model.DrawPayload{
				Board: game.Board,
			}),
		}, nil

	default:
		game.Turn = (game.Turn + 1) % len(game.Players)
		next := game.CurrentPlayer()
		return []model.Event{
			c.newEvent(model.EventState, roomID, model.StatePayload{
				Board:     game.Board,
				Row:       row,
				Col:       column,
				Turn:      next,
				MoveCount: game.MoveCount,
			}),
			c.newEvent(model.EventTurn, roomID, model.TurnPayload{
				Turn: next,
			}),
		}, nil
	}
}

// Reset reinitializes the room's game. Allowed in any state and not gated
// by whose turn it is; either occupant may reset. Idempotent.
func (c *Controller) Reset(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) ([]model.Event, error) {
	lock := c.locks.For(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasPlayer(playerID) {
		return nil, model.ErrUnknownPlayer
	}

	game, err := c.storage.GetGameForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	game.Board.Reset()
	game.MoveCount = 0
	game.Winner = ""
	game.Turn = 0
	game.Players = append([]model.PlayerID(nil), room.Players...)
	if room.IsFull() {
		game.State = model.GameStateInProgress
	} else {
		game.State = model.GameStateWaiting
	}
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game reset",
		slog.String("game_id", string(game.ID)),
		slog.String("room_id", string(roomID)),
		slog.String("requested_by", string(playerID)),
	)

	events := []model.Event{c.newEvent(model.EventReset, roomID, model.ResetPayload{
		Board: game.Board,
		Turn:  game.CurrentPlayer(),
	})}
	c.publish(ctx, events)
	return events, nil
}

// Deactivate returns the room's game to the waiting state after an
// occupant leaves. The board is cleared; the remaining occupant keeps
// their slot and waits for a new opponent.
func (c *Controller) Deactivate(ctx context.Context, roomID model.RoomID, leftPlayer model.PlayerID) ([]model.Event, error) {
	lock := c.locks.For(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	game, err := c.storage.GetGameForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	game.Board.Reset()
	game.MoveCount = 0
	game.Winner = ""
	game.Turn = 0
	game.Players = append([]model.PlayerID(nil), room.Players...)
	game.State = model.GameStateWaiting
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game deactivated",
		slog.String("game_id", string(game.ID)),
		slog.String("room_id", string(roomID)),
		slog.String("left_player", string(leftPlayer)),
	)

	events := []model.Event{
		c.newEvent(model.EventPlayerLeft, roomID, model.PlayerLeftPayload{
			PlayerID: leftPlayer,
		}),
		c.newEvent(model.EventReset, roomID, model.ResetPayload{
			Board: game.Board,
			Turn:  "",
		}),
	}
	c.publish(ctx, events)
	return events, nil
}

// Snapshot returns a copy of the current game state for read-only use.
// The copy is taken under the room lock so it is never mid-move.
func (c *Controller) Snapshot(ctx context.Context, roomID model.RoomID) (*model.Game, error) {
	lock := c.locks.For(roomID)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGameForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return cloneGame(game), nil
}

// Disconnect handles a player's channel closing mid-game. Policy is
// pause, not forfeit: game state is untouched, the remaining occupant is
// told the player left, and play resumes if the player reconnects.
func (c *Controller) Disconnect(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) {
	lock := c.locks.For(roomID)
	lock.Lock()
	defer lock.Unlock()

	c.logger.Info("player disconnected",
		slog.String("room_id", string(roomID)),
		slog.String("player_id", string(playerID)),
	)

	c.publish(ctx, []model.Event{c.newEvent(model.EventPlayerLeft, roomID, model.PlayerLeftPayload{
		PlayerID: playerID,
	})})
}

func (c *Controller) newEvent(typ model.EventType, roomID model.RoomID, payload any) model.Event {
	return model.Event{
		Type:      typ,
		Timestamp: c.clock.Now(),
		RoomID:    roomID,
		Payload:   payload,
	}
}

// publish forwards events to the notifier, if one is attached. Called
// under the room lock so sinks marshal fully-applied state.
func (c *Controller) publish(ctx context.Context, events []model.Event) {
	if c.notifier == nil {
		return
	}
	for _, e := range events {
		c.notifier.Publish(ctx, e)
	}
}

func cloneGame(g *model.Game) *model.Game {
	clone := *g
	clone.Players = append([]model.PlayerID(nil), g.Players...)
	clone.Board = model.NewBoard()
	for row := range g.Board.Cells {
		copy(clone.Board.Cells[row], g.Board.Cells[row])
	}
	return &clone
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, roomID model.RoomID) (*model.Game, error)
	Activate(ctx context.Context, roomID model.RoomID) ([]model.Event, error)
	Move(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, column int) ([]model.Event, error)
	Reset(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) ([]model.Event, error)
	Deactivate(ctx context.Context, roomID model.RoomID, leftPlayer model.PlayerID) ([]model.Event, error)
	Snapshot(ctx context.Context, roomID model.RoomID) (*model.Game, error)
	Disconnect(ctx context.Context, roomID model.RoomID, playerID model.PlayerID)
}

var _ ControllerInterface = (*Controller)(nil)
