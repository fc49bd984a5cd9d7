package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tomkite/dropfour/internal/dependencies/mocks"
	"github.com/tomkite/dropfour/internal/locks"
	"github.com/tomkite/dropfour/internal/model"
	"github.com/tomkite/dropfour/internal/services/bot"
	"github.com/tomkite/dropfour/internal/storage/memory"
	"github.com/tomkite/dropfour/internal/testutil"
)

// captureNotifier records published events in order
type captureNotifier struct {
	events []model.Event
}

func (n *captureNotifier) Publish(_ context.Context, event model.Event) {
	n.events = append(n.events, event)
}

func (n *captureNotifier) types() []model.EventType {
	types := make([]model.EventType, len(n.events))
	for i, e := range n.events {
		types[i] = e.Type
	}
	return types
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	notifier   *captureNotifier
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.notifier = &captureNotifier{}
	strategy := bot.NewRandomStrategy(s.random)
	s.controller = NewController(s.storage, strategy, locks.NewTable(), s.clock, s.random, s.notifier, testutil.NopLogger())
	s.ctx = context.Background()
}

// seedRoom persists a room with the given players and a waiting game
func (s *ControllerSuite) seedRoom(roomID model.RoomID, playerIDs ...model.PlayerID) {
	now := s.clock.Now()
	room := &model.Room{
		ID:        roomID,
		Name:      "test room",
		Players:   playerIDs,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	for i, id := range playerIDs {
		player := &model.Player{
			ID:       id,
			Username: string(id),
			RoomID:   roomID,
			JoinedAt: now.Add(time.Duration(i) * time.Second),
		}
		s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	}

	_, err := s.controller.CreateGame(s.ctx, roomID)
	s.Require().NoError(err)
}

// startGame seeds a full room and activates its game
func (s *ControllerSuite) startGame(roomID model.RoomID, p1, p2 model.PlayerID) {
	s.seedRoom(roomID, p1, p2)
	_, err := s.controller.Activate(s.ctx, roomID)
	s.Require().NoError(err)
	s.notifier.events = nil
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameStartsWaiting() {
	s.random.QueueUUID("game-1")
	s.seedRoom("room-1", "alice")

	game, err := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.GameStateWaiting, game.State)
	s.Empty(game.Players)
	s.Equal(0, game.MoveCount)
}

// Activate tests

func (s *ControllerSuite) TestActivateStartsGameWithJoinOrder() {
	s.seedRoom("room-1", "alice", "bob")

	events, err := s.controller.Activate(s.ctx, "room-1")
	s.Require().NoError(err)

	game, err := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.GameStateInProgress, game.State)
	s.Equal([]model.PlayerID{"alice", "bob"}, game.Players)
	s.Equal(model.PlayerID("alice"), game.CurrentPlayer())

	s.Require().Len(events, 1)
	s.Equal(model.EventState, events[0].Type)
}

func (s *ControllerSuite) TestActivateRequiresFullRoom() {
	s.seedRoom("room-1", "alice")

	_, err := s.controller.Activate(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrGameNotStarted)
}

func (s *ControllerSuite) TestActivateIsIdempotent() {
	s.startGame("room-1", "alice", "bob")

	events, err := s.controller.Activate(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Nil(events)
}

// Move tests

func (s *ControllerSuite) TestMoveBeforeStartIsRejected() {
	s.seedRoom("room-1", "alice")

	_, err := s.controller.Move(s.ctx, "room-1", "alice", 3)
	s.ErrorIs(err, model.ErrGameNotStarted)
}

func (s *ControllerSuite) TestMovePlacesDiscAndFlipsTurn() {
	s.startGame("room-1", "alice", "bob")

	events, err := s.controller.Move(s.ctx, "room-1", "alice", 3)
	s.Require().NoError(err)

	game, err := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.CellRed, game.Board.Get(5, 3))
	s.Equal(model.PlayerID("bob"), game.CurrentPlayer())
	s.Equal(1, game.MoveCount)

	s.Require().Len(events, 2)
	s.Equal(model.EventState, events[0].Type)
	s.Equal(model.EventTurn, events[1].Type)

	state := events[0].Payload.(model.StatePayload)
	s.Equal(5, state.Row)
	s.Equal(3, state.Col)
	s.Equal(model.PlayerID("bob"), state.Turn)
}

func (s *ControllerSuite) TestMoveOutOfTurnIsRejected() {
	s.startGame("room-1", "alice", "bob")

	_, err := s.controller.Move(s.ctx, "room-1", "bob", 3)
	s.ErrorIs(err, model.ErrNotYourTurn)

	// Board unchanged and no events broadcast
	game, _ := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Equal(0, game.MoveCount)
	s.Empty(s.notifier.events)
}

func (s *ControllerSuite) TestMoveInvalidColumnIsRejected() {
	s.startGame("room-1", "alice", "bob")

	_, err := s.controller.Move(s.ctx, "room-1", "alice", 7)
	s.ErrorIs(err, model.ErrInvalidColumn)

	_, err = s.controller.Move(s.ctx, "room-1", "alice", -1)
	s.ErrorIs(err, model.ErrInvalidColumn)
}

func (s *ControllerSuite) TestMoveIntoFullColumnIsRejected() {
	s.startGame("room-1", "alice", "bob")

	// Alternate columns so six discs land in column 3 without a win:
	// sequence avoids four in a row by mixing column 3 with others
	moves := []struct {
		player model.PlayerID
		col    int
	}{
		{"alice", 3}, {"bob", 3},
		{"alice", 3}, {"bob", 3},
		{"alice", 0}, {"bob", 3},
		{"alice", 3},
	}
	for _, m := range moves {
		_, err := s.controller.Move(s.ctx, "room-1", m.player, m.col)
		s.Require().NoError(err)
	}

	// Column 3 now holds six discs; the seventh is refused
	_, err := s.controller.Move(s.ctx, "room-1", "bob", 3)
	s.ErrorIs(err, model.ErrColumnFull)

	// The turn does not advance on a rejected move
	game, _ := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Equal(model.PlayerID("bob"), game.CurrentPlayer())

	// A different column is still accepted
	_, err = s.controller.Move(s.ctx, "room-1", "bob", 4)
	s.NoError(err)
}

func (s *ControllerSuite) TestVerticalWinFinishesGame() {
	s.startGame("room-1", "alice", "bob")

	moves := []struct {
		player model.PlayerID
		col    int
	}{
		{"alice", 2}, {"bob", 5},
		{"alice", 2}, {"bob", 5},
		{"alice", 2}, {"bob", 6},
	}
	for _, m := range moves {
		_, err := s.controller.Move(s.ctx, "room-1", m.player, m.col)
		s.Require().NoError(err)
	}
	s.notifier.events = nil

	events, err := s.controller.Move(s.ctx, "room-1", "alice", 2)
	s.Require().NoError(err)

	game, _ := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Equal(model.GameStateFinished, game.State)
	s.Equal(model.PlayerID("alice"), game.Winner)

	s.Require().Len(events, 2)
	s.Equal(model.EventState, events[0].Type)
	s.Equal(model.EventWin, events[1].Type)
	s.Equal(model.PlayerID("alice"), events[1].Payload.(model.WinPayload).Winner)

	// Events reached the notifier in the same order
	s.Equal([]model.EventType{model.EventState, model.EventWin}, s.notifier.types())
}

func (s *ControllerSuite) TestMoveAfterFinishIsRejected() {
	s.startGame("room-1", "alice", "bob")

	moves := []struct {
		player model.PlayerID
		col    int
	}{
		{"alice", 2}, {"bob", 5},
		{"alice", 2}, {"bob", 5},
		{"alice", 2}, {"bob", 6},
		{"alice", 2},
	}
	for _, m := range moves {
		_, err := s.controller.Move(s.ctx, "room-1", m.player, m.col)
		s.Require().NoError(err)
	}

	_, err := s.controller.Move(s.ctx, "room-1", "bob", 0)
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestComputerRepliesOnceAfterHumanMove() {
	now := s.clock.Now()
	room := &model.Room{
		ID:        "room-1",
		Name:      "vs computer",
		Players:   []model.PlayerID{"alice", "cpu"},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "alice", Username: "alice", RoomID: "room-1", JoinedAt: now,
	}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID: "cpu", Username: "Computer", RoomID: "room-1", IsComputer: true, JoinedAt: now,
	}))
	_, err := s.controller.CreateGame(s.ctx, "room-1")
	s.Require().NoError(err)
	_, err = s.controller.Activate(s.ctx, "room-1")
	s.Require().NoError(err)

	// Computer will pick the first legal column
	s.random.QueueIntn(0)

	events, err := s.controller.Move(s.ctx, "room-1", "alice", 3)
	s.Require().NoError(err)

	game, _ := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Equal(2, game.MoveCount)
	s.Equal(model.PlayerID("alice"), game.CurrentPlayer())
	s.Equal(model.CellRed, game.Board.Get(5, 3))
	s.Equal(model.CellYellow, game.Board.Get(5, 0))

	// Human move events followed by the computer reply's events
	s.Require().Len(events, 4)
	s.Equal(model.EventState, events[0].Type)
	s.Equal(model.EventTurn, events[1].Type)
	s.Equal(model.EventState, events[2].Type)
	s.Equal(model.EventTurn, events[3].Type)
}

// Reset tests

func (s *ControllerSuite) TestResetClearsBoardMidGame() {
	s.startGame("room-1", "alice", "bob")

	_, err := s.controller.Move(s.ctx, "room-1", "alice", 3)
	s.Require().NoError(err)
	s.notifier.events = nil

	events, err := s.controller.Reset(s.ctx, "room-1", "bob")
	s.Require().NoError(err)

	game, _ := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Equal(model.GameStateInProgress, game.State)
	s.Equal(0, game.MoveCount)
	s.Equal(model.PlayerID("alice"), game.CurrentPlayer())
	s.Equal(model.CellEmpty, game.Board.Get(5, 3))

	s.Require().Len(events, 1)
	s.Equal(model.EventReset, events[0].Type)
}

func (s *ControllerSuite) TestResetAfterFinishStartsNewGame() {
	s.startGame("room-1", "alice", "bob")

	moves := []struct {
		player model.PlayerID
		col    int
	}{
		{"alice", 2}, {"bob", 5},
		{"alice", 2}, {"bob", 5},
		{"alice", 2}, {"bob", 6},
		{"alice", 2},
	}
	for _, m := range moves {
		_, err := s.controller.Move(s.ctx, "room-1", m.player, m.col)
		s.Require().NoError(err)
	}

	_, err := s.controller.Reset(s.ctx, "room-1", "alice")
	s.Require().NoError(err)

	game, _ := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Equal(model.GameStateInProgress, game.State)
	s.Equal(model.PlayerID(""), game.Winner)

	// Play continues normally
	_, err = s.controller.Move(s.ctx, "room-1", "alice", 0)
	s.NoError(err)
}

func (s *ControllerSuite) TestResetIsIdempotent() {
	s.startGame("room-1", "alice", "bob")

	_, err := s.controller.Reset(s.ctx, "room-1", "alice")
	s.Require().NoError(err)
	_, err = s.controller.Reset(s.ctx, "room-1", "alice")
	s.Require().NoError(err)

	game, _ := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Equal(model.GameStateInProgress, game.State)
	s.Equal(0, game.MoveCount)
}

func (s *ControllerSuite) TestResetByOutsiderIsRejected() {
	s.startGame("room-1", "alice", "bob")

	_, err := s.controller.Reset(s.ctx, "room-1", "mallory")
	s.ErrorIs(err, model.ErrUnknownPlayer)
}

// Snapshot tests

func (s *ControllerSuite) TestSnapshotReturnsACopy() {
	s.startGame("room-1", "alice", "bob")

	snap, err := s.controller.Snapshot(s.ctx, "room-1")
	s.Require().NoError(err)

	snap.Board.Cells[5][0] = model.CellRed

	game, _ := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Equal(model.CellEmpty, game.Board.Get(5, 0))
}

// Deactivate tests

func (s *ControllerSuite) TestDeactivateReturnsGameToWaiting() {
	s.startGame("room-1", "alice", "bob")

	_, err := s.controller.Move(s.ctx, "room-1", "alice", 3)
	s.Require().NoError(err)

	// Simulate bob leaving: the room record shrinks first
	room, _ := s.storage.GetRoom(s.ctx, "room-1")
	room.Players = []model.PlayerID{"alice"}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))
	s.notifier.events = nil

	events, err := s.controller.Deactivate(s.ctx, "room-1", "bob")
	s.Require().NoError(err)

	game, _ := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Equal(model.GameStateWaiting, game.State)
	s.Equal(0, game.MoveCount)
	s.Equal([]model.PlayerID{"alice"}, game.Players)

	s.Require().Len(events, 2)
	s.Equal(model.EventPlayerLeft, events[0].Type)
	s.Equal(model.EventReset, events[1].Type)
}

// Disconnect tests

func (s *ControllerSuite) TestDisconnectLeavesGameUntouched() {
	s.startGame("room-1", "alice", "bob")

	_, err := s.controller.Move(s.ctx, "room-1", "alice", 3)
	s.Require().NoError(err)
	s.notifier.events = nil

	s.controller.Disconnect(s.ctx, "room-1", "bob")

	game, _ := s.storage.GetGameForRoom(s.ctx, "room-1")
	s.Equal(model.GameStateInProgress, game.State)
	s.Equal(1, game.MoveCount)

	s.Equal([]model.EventType{model.EventPlayerLeft}, s.notifier.types())
}
