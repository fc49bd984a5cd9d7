package model

import "time"

// EventType identifies the type of broadcast event
type EventType string

const (
	// Room events
	EventPlayerJoined EventType = "playerJoined"
	EventPlayerLeft   EventType = "playerLeft"

	// Game events
	EventState EventType = "state"
	EventTurn  EventType = "turn"
	EventWin   EventType = "win"
	EventDraw  EventType = "draw"
	EventReset EventType = "reset"
)

// Event is a single broadcast destined for all channels bound to a room.
// Events are produced by the coordinator under the room lock, so a payload
// never exposes partially-applied state.
type Event struct {
	Type      EventType
	Timestamp time.Time
	RoomID    RoomID
	Payload   any
}

// StatePayload carries the board after an accepted move
type StatePayload struct {
	Board     *Board
	Row       int // landing row of the last drop
	Col       int
	Turn      PlayerID
	MoveCount int
}

// TurnPayload carries a turn change
type TurnPayload struct {
	Turn PlayerID
}

// WinPayload carries a terminal win
type WinPayload struct {
	Winner PlayerID
	Board  *Board
}

// DrawPayload carries a terminal draw
type DrawPayload struct {
	Board *Board
}

// ResetPayload carries a game reset back to an empty board
type ResetPayload struct {
	Board *Board
	Turn  PlayerID
}

// PlayerJoinedPayload carries a new room occupant
type PlayerJoinedPayload struct {
	PlayerID   PlayerID
	Username   string
	IsComputer bool
}

// PlayerLeftPayload carries a departed or disconnected occupant
type PlayerLeftPayload struct {
	PlayerID PlayerID
}
