package model

import "time"

// RoomID uniquely identifies a room
type RoomID string

// RoomCapacity is the fixed number of player slots per room
const RoomCapacity = 2

// Room represents a two-player game room
type Room struct {
	ID   RoomID
	Name string

	// PasswordHash is the bcrypt hash of the room password, empty for open rooms.
	// The cleartext password is never stored or logged.
	PasswordHash string

	// Players holds the occupied slots in join order (first joined plays first)
	Players []PlayerID

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPassword returns true if the room is password-protected
func (r *Room) HasPassword() bool {
	return r.PasswordHash != ""
}

// IsFull returns true if all player slots are occupied
func (r *Room) IsFull() bool {
	return len(r.Players) >= RoomCapacity
}

// HasPlayer returns true if the given player occupies a slot
func (r *Room) HasPlayer(playerID PlayerID) bool {
	for _, id := range r.Players {
		if id == playerID {
			return true
		}
	}
	return false
}

// SlotIndex returns the player's slot index in join order, or -1 if absent
func (r *Room) SlotIndex(playerID PlayerID) int {
	for i, id := range r.Players {
		if id == playerID {
			return i
		}
	}
	return -1
}

// RoomSummary is a read-only projection of a room for the control plane
type RoomSummary struct {
	ID      RoomID
	Name    string
	Players []Player
	Active  bool
}
