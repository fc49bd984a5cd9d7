package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tomkite/dropfour/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: Complete flow from room creation to a win and a rematch
func (s *IntegrationSuite) TestCompleteGameFlow() {
	// Step 1: Create a room
	room, err := s.app.RoomController.CreateRoom(s.ctx, "friday game", "")
	s.Require().NoError(err)
	s.Empty(room.Players)

	// Step 2: Both players join; the second join starts the game
	alice, err := s.app.RoomController.JoinRoom(s.ctx, room.ID, "", "alice")
	s.Require().NoError(err)
	bob, err := s.app.RoomController.JoinRoom(s.ctx, room.ID, "", "bob")
	s.Require().NoError(err)

	game, err := s.app.GameController.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateInProgress, game.State)
	s.Equal([]model.PlayerID{alice.ID, bob.ID}, game.Players)
	s.Equal(alice.ID, game.CurrentPlayer())

	// Step 3: Alice stacks column 2 while Bob scatters; Alice wins with
	// four vertical discs
	moves := []struct {
		player model.PlayerID
		column int
	}{
		{alice.ID, 2}, {bob.ID, 5},
		{alice.ID, 2}, {bob.ID, 5},
		{alice.ID, 2}, {bob.ID, 6},
		{alice.ID, 2},
	}
	for _, m := range moves {
		_, err := s.app.GameController.Move(s.ctx, room.ID, m.player, m.column)
		s.Require().NoError(err)
	}

	game, err = s.app.GameController.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateFinished, game.State)
	s.Equal(alice.ID, game.Winner)
	s.Equal(7, game.MoveCount)

	// Step 4: No moves after the win
	_, err = s.app.GameController.Move(s.ctx, room.ID, bob.ID, 0)
	s.ErrorIs(err, model.ErrGameOver)

	// Step 5: Rematch
	_, err = s.app.GameController.Reset(s.ctx, room.ID, bob.ID)
	s.Require().NoError(err)

	game, err = s.app.GameController.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateInProgress, game.State)
	s.Equal(model.PlayerID(""), game.Winner)
	s.Equal(0, game.MoveCount)
	s.Equal(alice.ID, game.CurrentPlayer())
	s.Equal(model.CellEmpty, game.Board.Get(5, 2))
}

// Test: Solo flow against the computer opponent
func (s *IntegrationSuite) TestComputerOpponentFlow() {
	room, err := s.app.RoomController.CreateRoom(s.ctx, "solo game", "")
	s.Require().NoError(err)

	human, computer, err := s.app.RoomController.JoinVsComputer(s.ctx, room.ID, "", "alice")
	s.Require().NoError(err)
	s.False(human.IsComputer)
	s.True(computer.IsComputer)

	game, err := s.app.GameController.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateInProgress, game.State)
	s.Equal(human.ID, game.CurrentPlayer())

	// The computer answers within the same move call
	s.app.MockRandom.QueueIntn(0)
	_, err = s.app.GameController.Move(s.ctx, room.ID, human.ID, 3)
	s.Require().NoError(err)

	game, err = s.app.GameController.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(2, game.MoveCount)
	s.Equal(human.ID, game.CurrentPlayer())
	s.Equal(model.CellRed, game.Board.Get(5, 3))
	s.Equal(model.CellYellow, game.Board.Get(5, 0))
}

// Test: A leaver mid-game sends the room back to waiting and a rejoin
// restarts fresh
func (s *IntegrationSuite) TestLeaveAndRejoin() {
	room, err := s.app.RoomController.CreateRoom(s.ctx, "flaky game", "")
	s.Require().NoError(err)
	alice, err := s.app.RoomController.JoinRoom(s.ctx, room.ID, "", "alice")
	s.Require().NoError(err)
	bob, err := s.app.RoomController.JoinRoom(s.ctx, room.ID, "", "bob")
	s.Require().NoError(err)

	_, err = s.app.GameController.Move(s.ctx, room.ID, alice.ID, 3)
	s.Require().NoError(err)

	s.Require().NoError(s.app.RoomController.LeaveRoom(s.ctx, room.ID, bob.ID))

	game, err := s.app.GameController.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateWaiting, game.State)
	s.Equal(0, game.MoveCount)

	// A new opponent restarts the game with a clean board
	carol, err := s.app.RoomController.JoinRoom(s.ctx, room.ID, "", "carol")
	s.Require().NoError(err)

	game, err = s.app.GameController.Snapshot(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateInProgress, game.State)
	s.Equal([]model.PlayerID{alice.ID, carol.ID}, game.Players)
	s.Equal(model.CellEmpty, game.Board.Get(5, 3))
}

// Test: Password gate end to end
func (s *IntegrationSuite) TestPasswordedRoomFlow() {
	room, err := s.app.RoomController.CreateRoom(s.ctx, "private game", "sekret")
	s.Require().NoError(err)

	_, err = s.app.RoomController.JoinRoom(s.ctx, room.ID, "nope", "alice")
	s.ErrorIs(err, model.ErrWrongPassword)

	_, err = s.app.RoomController.JoinRoom(s.ctx, room.ID, "sekret", "alice")
	s.Require().NoError(err)

	info, err := s.app.RoomController.GetRoomInfo(s.ctx, room.ID)
	s.Require().NoError(err)
	s.True(info.HasPassword)
	s.Empty(info.Room.PasswordHash)
}
