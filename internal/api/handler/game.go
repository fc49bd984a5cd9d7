package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tomkite/dropfour/internal/api/apierr"
	"github.com/tomkite/dropfour/internal/api/response"
	"github.com/tomkite/dropfour/internal/model"
	"github.com/tomkite/dropfour/internal/services/game"
	"github.com/tomkite/dropfour/internal/services/room"
	"github.com/tomkite/dropfour/internal/ws"
)

// GameHandler handles game state and channel endpoints
type GameHandler struct {
	rooms    room.ControllerInterface
	games    game.ControllerInterface
	sessions *ws.SessionManager
}

// NewGameHandler creates a new game handler
func NewGameHandler(rooms room.ControllerInterface, games game.ControllerInterface, sessions *ws.SessionManager) *GameHandler {
	return &GameHandler{
		rooms:    rooms,
		games:    games,
		sessions: sessions,
	}
}

// Get handles GET /api/v1/rooms/{room_id}/game
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["room_id"])

	g, err := h.games.Snapshot(r.Context(), roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Connect handles GET /ws/{room_id}/{player_id}. The player must already
// be seated in the room; unknown players are refused before the upgrade.
func (h *GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID := model.RoomID(vars["room_id"])
	playerID := model.PlayerID(vars["player_id"])

	if _, err := h.rooms.GetPlayer(r.Context(), roomID, playerID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.sessions.Attach(w, r, roomID, playerID); err != nil {
		// Upgrade failure has already written its own response
		return
	}
}
