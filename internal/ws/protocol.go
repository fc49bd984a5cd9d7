package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tomkite/dropfour/internal/model"
)

// Inbound message types
const (
	MsgMove  = "move"
	MsgReset = "reset"
)

// ClientMessage is the envelope for messages received over a channel
type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column,omitempty"`
}

// ServerMessage is the envelope for messages sent over a channel
type ServerMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// BoardGrid is the wire form of the board: rows top to bottom, cells
// 0 (empty), 1 (red), 2 (yellow)
type BoardGrid [][]int

// StateMessage mirrors model.StatePayload on the wire
type StateMessage struct {
	Board     BoardGrid `json:"board"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Turn      string    `json:"turn"`
	MoveCount int       `json:"moveCount"`
}

// TurnMessage announces whose turn it is
type TurnMessage struct {
	Turn string `json:"turn"`
}

// WinMessage announces a finished game with a winner
type WinMessage struct {
	Winner string    `json:"winner"`
	Board  BoardGrid `json:"board"`
}

// DrawMessage announces a finished game with a full board
type DrawMessage struct {
	Board BoardGrid `json:"board"`
}

// ResetMessage announces the board returning to empty
type ResetMessage struct {
	Board BoardGrid `json:"board"`
	Turn  string    `json:"turn"`
}

// PlayerJoinedMessage announces a new occupant
type PlayerJoinedMessage struct {
	PlayerID   string `json:"playerId"`
	Username   string `json:"username"`
	IsComputer bool   `json:"isComputer"`
}

// PlayerLeftMessage announces a departed occupant
type PlayerLeftMessage struct {
	PlayerID string `json:"playerId"`
}

// ErrorMessage is sent only to the channel whose request was rejected
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func gridFromBoard(b *model.Board) BoardGrid {
	grid := make(BoardGrid, len(b.Cells))
	for row := range b.Cells {
		grid[row] = make([]int, len(b.Cells[row]))
		for col, cell := range b.Cells[row] {
			grid[row][col] = int(cell)
		}
	}
	return grid
}

// EncodeEvent converts a broadcast event into its wire form
func EncodeEvent(event model.Event) ([]byte, error) {
	msg := ServerMessage{
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
	}

	switch p := event.Payload.(type) {
	case model.StatePayload:
		msg.Payload = StateMessage{
			Board:     gridFromBoard(p.Board),
			Row:       p.Row,
			Col:       p.Col,
			Turn:      string(p.Turn),
			MoveCount: p.MoveCount,
		}
	case model.TurnPayload:
		msg.Payload = TurnMessage{Turn: string(p.Turn)}
	case model.WinPayload:
		msg.Payload = WinMessage{Winner: string(p.Winner), Board: gridFromBoard(p.Board)}
	case model.DrawPayload:
		msg.Payload = DrawMessage{Board: gridFromBoard(p.Board)}
	case model.ResetPayload:
		msg.Payload = ResetMessage{Board: gridFromBoard(p.Board), Turn: string(p.Turn)}
	case model.PlayerJoinedPayload:
		msg.Payload = PlayerJoinedMessage{
			PlayerID:   string(p.PlayerID),
			Username:   p.Username,
			IsComputer: p.IsComputer,
		}
	case model.PlayerLeftPayload:
		msg.Payload = PlayerLeftMessage{PlayerID: string(p.PlayerID)}
	case nil:
	default:
		return nil, fmt.Errorf("unknown event payload type %T", event.Payload)
	}

	return json.Marshal(msg)
}

// EncodeError builds the wire form of a rejected request
func EncodeError(code, message string, now time.Time) []byte {
	data, _ := json.Marshal(ServerMessage{
		Type:      "error",
		Timestamp: now,
		Payload:   ErrorMessage{Code: code, Message: message},
	})
	return data
}
