package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/tomkite/dropfour/internal/model"
)

func decodeEnvelope(t *testing.T, data []byte) (string, map[string]any) {
	t.Helper()
	var envelope struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return envelope.Type, envelope.Payload
}

func TestEncodeEvent_State(t *testing.T) {
	board := model.NewBoard()
	board.Cells[5][3] = model.CellRed

	data, err := EncodeEvent(model.Event{
		Type:      model.EventState,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		RoomID:    "room-1",
		Payload: model.StatePayload{
			Board:     board,
			Row:       5,
			Col:       3,
			Turn:      "player-2",
			MoveCount: 1,
		},
	})
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}

	typ, payload := decodeEnvelope(t, data)
	if typ != "state" {
		t.Errorf("type = %q, want %q", typ, "state")
	}
	if payload["turn"] != "player-2" {
		t.Errorf("turn = %v, want player-2", payload["turn"])
	}
	if payload["row"].(float64) != 5 || payload["col"].(float64) != 3 {
		t.Errorf("landing cell = (%v, %v), want (5, 3)", payload["row"], payload["col"])
	}
	if payload["moveCount"].(float64) != 1 {
		t.Errorf("moveCount = %v, want 1", payload["moveCount"])
	}

	grid := payload["board"].([]any)
	if len(grid) != model.BoardRows {
		t.Fatalf("board has %d rows, want %d", len(grid), model.BoardRows)
	}
	bottom := grid[5].([]any)
	if bottom[3].(float64) != 1 {
		t.Errorf("cell (5,3) = %v, want 1", bottom[3])
	}
	top := grid[0].([]any)
	if top[3].(float64) != 0 {
		t.Errorf("cell (0,3) = %v, want 0", top[3])
	}
}

func TestEncodeEvent_Win(t *testing.T) {
	data, err := EncodeEvent(model.Event{
		Type:      model.EventWin,
		Timestamp: time.Now(),
		Payload:   model.WinPayload{Winner: "player-1", Board: model.NewBoard()},
	})
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}

	typ, payload := decodeEnvelope(t, data)
	if typ != "win" {
		t.Errorf("type = %q, want %q", typ, "win")
	}
	if payload["winner"] != "player-1" {
		t.Errorf("winner = %v, want player-1", payload["winner"])
	}
}

func TestEncodeEvent_PlayerJoined(t *testing.T) {
	data, err := EncodeEvent(model.Event{
		Type:      model.EventPlayerJoined,
		Timestamp: time.Now(),
		Payload: model.PlayerJoinedPayload{
			PlayerID:   "player-cpu",
			Username:   "Computer",
			IsComputer: true,
		},
	})
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}

	typ, payload := decodeEnvelope(t, data)
	if typ != "playerJoined" {
		t.Errorf("type = %q, want %q", typ, "playerJoined")
	}
	if payload["playerId"] != "player-cpu" {
		t.Errorf("playerId = %v, want player-cpu", payload["playerId"])
	}
	if payload["isComputer"] != true {
		t.Errorf("isComputer = %v, want true", payload["isComputer"])
	}
}

func TestEncodeEvent_UnknownPayload(t *testing.T) {
	_, err := EncodeEvent(model.Event{
		Type:      model.EventState,
		Timestamp: time.Now(),
		Payload:   42,
	})
	if err == nil {
		t.Error("expected error for unknown payload type")
	}
}

func TestEncodeError(t *testing.T) {
	data := EncodeError("not_your_turn", "it is not your turn", time.Now())

	typ, payload := decodeEnvelope(t, data)
	if typ != "error" {
		t.Errorf("type = %q, want %q", typ, "error")
	}
	if payload["code"] != "not_your_turn" {
		t.Errorf("code = %v, want not_your_turn", payload["code"])
	}
	if payload["message"] != "it is not your turn" {
		t.Errorf("message = %v, want set", payload["message"])
	}
}

func TestClientMessage_WireNames(t *testing.T) {
	// Clients speak "move" and "reset" on the wire
	if MsgMove != "move" {
		t.Errorf("MsgMove = %q, want %q", MsgMove, "move")
	}
	if MsgReset != "reset" {
		t.Errorf("MsgReset = %q, want %q", MsgReset, "reset")
	}
}

func TestClientMessage_ColumnOptional(t *testing.T) {
	var msg ClientMessage
	if err := json.Unmarshal([]byte(`{"type":"reset"}`), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != MsgReset {
		t.Errorf("type = %q, want %q", msg.Type, MsgReset)
	}
	if msg.Column != nil {
		t.Error("column should be nil when absent")
	}

	if err := json.Unmarshal([]byte(`{"type":"move","column":3}`), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != MsgMove || msg.Column == nil || *msg.Column != 3 {
		t.Errorf("parsed %+v, want move column 3", msg)
	}
}
