package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateWaiting    GameState = "waiting_for_players" // Room has fewer than two occupants
	GameStateInProgress GameState = "in_progress"         // Moves are accepted
	GameStateFinished   GameState = "finished"            // Win or draw reached
)

// Game is the Connect-Four state machine bound to a room.
// Exactly one game exists per room once the second slot fills.
type Game struct {
	ID     GameID
	RoomID RoomID
	State  GameState
	Board  *Board

	// Players in join order (snapshot at game start); index 0 plays CellRed
	Players []PlayerID

	// Turn is the index into Players of the active player
	Turn int

	// Winner is set only in the finished state after a win; empty on a draw
	Winner PlayerID

	MoveCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DiscFor returns the disc colour for the given slot index
func DiscFor(slot int) Cell {
	if slot == 0 {
		return CellRed
	}
	return CellYellow
}

// CurrentPlayer returns the PlayerID whose turn it is
func (g *Game) CurrentPlayer() PlayerID {
	if len(g.Players) == 0 {
		return ""
	}
	return g.Players[g.Turn]
}

// IsTerminal returns true once a win or draw has been reached
func (g *Game) IsTerminal() bool {
	return g.State == GameStateFinished
}
