package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tomkite/dropfour/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidRoomName = "INVALID_ROOM_NAME"
	CodeInvalidUsername = "INVALID_USERNAME"
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodeRoomFull        = "ROOM_FULL"
	CodeWrongPassword   = "WRONG_PASSWORD"
	CodeUsernameTaken   = "USERNAME_TAKEN"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeUnknownPlayer   = "UNKNOWN_PLAYER"
	CodeGameNotFound    = "GAME_NOT_FOUND"
	CodeGameNotStarted  = "GAME_NOT_STARTED"
	CodeNotYourTurn     = "NOT_YOUR_TURN"
	CodeGameOver        = "GAME_OVER"
	CodeInvalidColumn   = "INVALID_COLUMN"
	CodeColumnFull      = "COLUMN_FULL"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidRoomName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRoomName, "Room name must not be empty"}}
	case errors.Is(err, model.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidUsername, "Username must not be empty"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room already has two players"}}
	case errors.Is(err, model.ErrWrongPassword):
		return &httpError{http.StatusUnauthorized, APIError{CodeWrongPassword, "Incorrect room password"}}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameTaken, "Username already taken in this room"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrUnknownPlayer):
		return &httpError{http.StatusForbidden, APIError{CodeUnknownPlayer, "Player does not belong to this room"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameNotStarted, "Game has not started"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrGameOver):
		return &httpError{http.StatusConflict, APIError{CodeGameOver, "Game is over"}}
	case errors.Is(err, model.ErrInvalidColumn):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidColumn, "Column index out of range"}}
	case errors.Is(err, model.ErrColumnFull):
		return &httpError{http.StatusConflict, APIError{CodeColumnFull, "Column is full"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
