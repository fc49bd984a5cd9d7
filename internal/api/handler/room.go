package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tomkite/dropfour/internal/api/apierr"
	"github.com/tomkite/dropfour/internal/api/request"
	"github.com/tomkite/dropfour/internal/api/response"
	"github.com/tomkite/dropfour/internal/model"
	"github.com/tomkite/dropfour/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	rooms room.ControllerInterface
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms room.ControllerInterface) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	created, err := h.rooms.CreateRoom(r.Context(), req.Name, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// Get handles GET /api/v1/rooms/{room_id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["room_id"])

	info, err := h.rooms.GetRoomInfo(r.Context(), roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomInfoFromModel(info))
}

// Join handles POST /api/v1/rooms/{room_id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["room_id"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.rooms.JoinRoom(r.Context(), roomID, req.Password, req.Username)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	info, err := h.rooms.GetRoomInfo(r.Context(), roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinedRoom{
		Room:   response.RoomFromModel(info.Room),
		Player: response.PlayerFromModel(player),
	})
}

// JoinVsComputer handles POST /api/v1/rooms/{room_id}/join-computer
func (h *RoomHandler) JoinVsComputer(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["room_id"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	player, computer, err := h.rooms.JoinVsComputer(r.Context(), roomID, req.Password, req.Username)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	info, err := h.rooms.GetRoomInfo(r.Context(), roomID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	cpu := response.PlayerFromModel(computer)
	response.JSON(w, http.StatusOK, response.JoinedRoom{
		Room:           response.RoomFromModel(info.Room),
		Player:         response.PlayerFromModel(player),
		ComputerPlayer: &cpu,
	})
}

// Leave handles POST /api/v1/rooms/{room_id}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["room_id"])

	var req request.LeaveRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("player_id is required"))
		return
	}

	if err := h.rooms.LeaveRoom(r.Context(), roomID, model.PlayerID(req.PlayerID)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
