package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomkite/dropfour/internal/api"
	"github.com/tomkite/dropfour/internal/api/apierr"
	"github.com/tomkite/dropfour/internal/api/response"
	"github.com/tomkite/dropfour/internal/factory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		RoomController: app.RoomController,
		GameController: app.GameController,
		SessionManager: app.SessionManager,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createRoom(t *testing.T, name, password string) response.Room {
	t.Helper()
	body := map[string]string{"name": name}
	if password != "" {
		body["password"] = password
	}
	rr := ts.request(http.MethodPost, "/api/v1/rooms", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var room response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &room))
	return room
}

func (ts *testServer) joinRoom(t *testing.T, roomID, username, password string) response.JoinedRoom {
	t.Helper()
	body := map[string]string{"username": username}
	if password != "" {
		body["password"] = password
	}
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+roomID+"/join", body)
	require.Equal(t, http.StatusOK, rr.Code)

	var joined response.JoinedRoom
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &joined))
	return joined
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateRoom(t *testing.T) {
	ts := newTestServer(t)

	room := ts.createRoom(t, "my room", "")
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "my room", room.Name)
	assert.False(t, room.HasPassword)
	assert.Equal(t, 0, room.PlayerCount)
	assert.Equal(t, 2, room.Capacity)
}

func TestCreateRoomBlankName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/rooms", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRoomName, errorCode(t, rr))
}

func TestCreateRoomNeverLeaksPassword(t *testing.T) {
	ts := newTestServer(t)

	room := ts.createRoom(t, "secret room", "hunter2")
	assert.True(t, room.HasPassword)

	rr := ts.request(http.MethodGet, "/api/v1/rooms/"+room.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hunter2")
	assert.NotContains(t, strings.ToLower(rr.Body.String()), "hash")
}

func TestGetRoomNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/rooms/no-such-room", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeRoomNotFound, errorCode(t, rr))
}

func TestJoinFlowStartsGame(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "my room", "")

	alice := ts.joinRoom(t, room.ID, "alice", "")
	assert.Equal(t, "alice", alice.Player.Username)
	assert.Equal(t, 1, alice.Room.PlayerCount)

	// Game waits for the second seat
	rr := ts.request(http.MethodGet, "/api/v1/rooms/"+room.ID+"/game", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var game response.GameState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	assert.Equal(t, "waiting_for_players", game.State)
	assert.Nil(t, game.Turn)

	bob := ts.joinRoom(t, room.ID, "bob", "")
	assert.Equal(t, 2, bob.Room.PlayerCount)

	rr = ts.request(http.MethodGet, "/api/v1/rooms/"+room.ID+"/game", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	assert.Equal(t, "in_progress", game.State)
	require.NotNil(t, game.Turn)
	assert.Equal(t, alice.Player.ID, *game.Turn)
	assert.Equal(t, []string{alice.Player.ID, bob.Player.ID}, game.Players)
	assert.Len(t, game.Board.Cells, 6)
	assert.Len(t, game.Board.Cells[0], 7)
}

func TestJoinWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "secret room", "hunter2")

	// A room-info read must not weaken the gate for later joins
	rr := ts.request(http.MethodGet, "/api/v1/rooms/"+room.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/join",
		map[string]string{"username": "bob", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeWrongPassword, errorCode(t, rr))

	// The rejected join did not take the seat
	rr = ts.request(http.MethodGet, "/api/v1/rooms/"+room.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var info response.RoomInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, 0, info.Room.PlayerCount)
	assert.Empty(t, info.Players)
}

func TestJoinUsernameTaken(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "my room", "")
	ts.joinRoom(t, room.ID, "alice", "")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/join",
		map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeUsernameTaken, errorCode(t, rr))
}

func TestJoinRoomFull(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "my room", "")
	ts.joinRoom(t, room.ID, "alice", "")
	ts.joinRoom(t, room.ID, "bob", "")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/join",
		map[string]string{"username": "carol"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeRoomFull, errorCode(t, rr))
}

func TestJoinVsComputer(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "solo room", "")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/join-computer",
		map[string]string{"username": "alice"})
	require.Equal(t, http.StatusOK, rr.Code)

	var joined response.JoinedRoom
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &joined))
	assert.Equal(t, "alice", joined.Player.Username)
	require.NotNil(t, joined.ComputerPlayer)
	assert.True(t, joined.ComputerPlayer.IsComputer)
	assert.Equal(t, 2, joined.Room.PlayerCount)

	var game response.GameState
	rr = ts.request(http.MethodGet, "/api/v1/rooms/"+room.ID+"/game", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	assert.Equal(t, "in_progress", game.State)
	require.NotNil(t, game.Turn)
	assert.Equal(t, joined.Player.ID, *game.Turn)
}

func TestLeaveRoom(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "my room", "")
	alice := ts.joinRoom(t, room.ID, "alice", "")
	ts.joinRoom(t, room.ID, "bob", "")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/leave",
		map[string]string{"player_id": alice.Player.ID})
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Game dropped back to waiting
	var game response.GameState
	rr = ts.request(http.MethodGet, "/api/v1/rooms/"+room.ID+"/game", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	assert.Equal(t, "waiting_for_players", game.State)
}

func TestLeaveRequiresPlayerID(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "my room", "")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+room.ID+"/leave", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestChannelRefusesUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "my room", "")

	// Refused before any upgrade is attempted
	rr := ts.request(http.MethodGet, "/ws/"+room.ID+"/no-such-player", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeUnknownPlayer, errorCode(t, rr))
}

func TestChannelSendsSnapshotOnConnect(t *testing.T) {
	ts := newTestServer(t)
	room := ts.createRoom(t, "my room", "")
	alice := ts.joinRoom(t, room.ID, "alice", "")

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + room.ID + "/" + alice.Player.ID
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string `json:"type"`
		Payload struct {
			Board [][]int `json:"board"`
			Row   int     `json:"row"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "state", msg.Type)
	assert.Len(t, msg.Payload.Board, 6)
	assert.Equal(t, -1, msg.Payload.Row)
}
