package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrInvalidRoomName = errors.New("room name must not be empty")
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrWrongPassword   = errors.New("incorrect room password")
	ErrUsernameTaken   = errors.New("username already taken in this room")
	ErrInvalidUsername = errors.New("username must not be empty")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrUnknownPlayer  = errors.New("player does not belong to this room")

	// Game errors
	ErrGameNotFound   = errors.New("game not found")
	ErrGameNotStarted = errors.New("game has not started")
	ErrNotYourTurn    = errors.New("not this player's turn")
	ErrGameOver       = errors.New("game is over")

	// Board errors
	ErrInvalidColumn = errors.New("column index out of range")
	ErrColumnFull    = errors.New("column is full")
)
