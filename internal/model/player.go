package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents an occupant of a room slot
type Player struct {
	ID       PlayerID
	Username string
	RoomID   RoomID

	// IsComputer marks a synthetic computer-controlled player
	IsComputer bool

	JoinedAt time.Time
}
