package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case Room:
		o.printRoom(v)
	case JoinedRoom:
		o.printJoinedRoom(v)
	case RoomInfo:
		o.printRoomInfo(v)
	case GameState:
		o.printGameState(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	IsComputer bool      `json:"is_computer,omitempty"`
	JoinedAt   time.Time `json:"joined_at"`
}

// Room response type
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	HasPassword bool      `json:"has_password"`
	PlayerCount int       `json:"player_count"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
}

// JoinedRoom response type
type JoinedRoom struct {
	Room           Room    `json:"room"`
	Player         Player  `json:"player"`
	ComputerPlayer *Player `json:"computer_player,omitempty"`
}

// RoomInfo response type
type RoomInfo struct {
	Room      Room     `json:"room"`
	Players   []Player `json:"players"`
	GameState string   `json:"game_state"`
}

// GameState response type
type GameState struct {
	ID        string   `json:"id"`
	State     string   `json:"state"`
	Board     Board    `json:"board"`
	Players   []string `json:"players"`
	Turn      *string  `json:"turn"`
	Winner    *string  `json:"winner,omitempty"`
	MoveCount int      `json:"move_count"`
}

// Board response type
type Board struct {
	Cells [][]int `json:"cells"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Username, p.ID)
	if p.IsComputer {
		fmt.Println("Computer: yes")
	}
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s (%s)\n", r.Name, r.ID)
	fmt.Printf("Players: %d/%d\n", r.PlayerCount, r.Capacity)
	passwordStr := "no"
	if r.HasPassword {
		passwordStr = "yes"
	}
	fmt.Printf("Password: %s\n", passwordStr)
}

func (o *Output) printJoinedRoom(j JoinedRoom) {
	o.printRoom(j.Room)
	o.printPlayer(j.Player)
	if j.ComputerPlayer != nil {
		o.printPlayer(*j.ComputerPlayer)
	}
}

func (o *Output) printRoomInfo(info RoomInfo) {
	o.printRoom(info.Room)
	fmt.Printf("Game: %s\n", info.GameState)
	for _, p := range info.Players {
		marker := ""
		if p.IsComputer {
			marker = " [computer]"
		}
		fmt.Printf("  - %s (%s)%s\n", p.Username, p.ID, marker)
	}
}

func (o *Output) printGameState(g GameState) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("State: %s\n", g.State)
	if g.Turn != nil {
		fmt.Printf("Turn: %s\n", *g.Turn)
	}
	if g.Winner != nil {
		fmt.Printf("Winner: %s\n", *g.Winner)
	}
	fmt.Printf("Moves: %d\n", g.MoveCount)
	printBoard(g.Board.Cells)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
