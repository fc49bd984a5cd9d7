package request

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	Password string `json:"password,omitempty"`
	Username string `json:"username"`
}

// LeaveRoomRequest is the request body for leaving a room
type LeaveRoomRequest struct {
	PlayerID string `json:"player_id"`
}
