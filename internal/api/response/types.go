package response

import (
	"time"

	"github.com/tomkite/dropfour/internal/model"
	"github.com/tomkite/dropfour/internal/services/room"
)

// Player represents a room occupant in API responses
type Player struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	IsComputer bool      `json:"is_computer,omitempty"`
	JoinedAt   time.Time `json:"joined_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:         string(p.ID),
		Username:   p.Username,
		IsComputer: p.IsComputer,
		JoinedAt:   p.JoinedAt,
	}
}

// Room represents a room in API responses. The password itself is never
// returned, only whether one is required.
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	HasPassword bool      `json:"has_password"`
	PlayerCount int       `json:"player_count"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoomFromModel converts a model.Room to a response Room
func RoomFromModel(r *model.Room) Room {
	return Room{
		ID:          string(r.ID),
		Name:        r.Name,
		HasPassword: r.HasPassword(),
		PlayerCount: len(r.Players),
		Capacity:    model.RoomCapacity,
		CreatedAt:   r.CreatedAt,
	}
}

// RoomInfo is the full room probe response
type RoomInfo struct {
	Room      Room     `json:"room"`
	Players   []Player `json:"players"`
	GameState string   `json:"game_state"`
}

// RoomInfoFromModel converts a room.RoomInfo read-model
func RoomInfoFromModel(info *room.RoomInfo) RoomInfo {
	players := make([]Player, len(info.Players))
	for i, p := range info.Players {
		players[i] = PlayerFromModel(p)
	}
	return RoomInfo{
		Room:      RoomFromModel(info.Room),
		Players:   players,
		GameState: string(info.GameState),
	}
}

// JoinedRoom is the response after joining a room. ComputerPlayer is set
// only on the join-computer path.
type JoinedRoom struct {
	Room           Room    `json:"room"`
	Player         Player  `json:"player"`
	ComputerPlayer *Player `json:"computer_player,omitempty"`
}

// Board represents the grid in API responses: rows top to bottom, cells
// 0 (empty), 1 (red), 2 (yellow)
type Board struct {
	Cells [][]int `json:"cells"`
}

// BoardFromModel converts model.Board to response Board
func BoardFromModel(b *model.Board) Board {
	cells := make([][]int, len(b.Cells))
	for row := range b.Cells {
		cells[row] = make([]int, len(b.Cells[row]))
		for col, cell := range b.Cells[row] {
			cells[row][col] = int(cell)
		}
	}
	return Board{Cells: cells}
}

// GameState represents the current game state
type GameState struct {
	ID        string   `json:"id"`
	State     string   `json:"state"`
	Board     Board    `json:"board"`
	Players   []string `json:"players"`
	Turn      *string  `json:"turn"`
	Winner    *string  `json:"winner,omitempty"`
	MoveCount int      `json:"move_count"`
}

// GameStateFromModel converts model.Game to response GameState
func GameStateFromModel(g *model.Game) GameState {
	players := make([]string, len(g.Players))
	for i, p := range g.Players {
		players[i] = string(p)
	}

	var turn *string
	if g.State == model.GameStateInProgress {
		t := string(g.CurrentPlayer())
		turn = &t
	}

	var winner *string
	if g.Winner != "" {
		w := string(g.Winner)
		winner = &w
	}

	return GameState{
		ID:        string(g.ID),
		State:     string(g.State),
		Board:     BoardFromModel(g.Board),
		Players:   players,
		Turn:      turn,
		Winner:    winner,
		MoveCount: g.MoveCount,
	}
}
