package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/tomkite/dropfour/internal/dependencies/clock"
	"github.com/tomkite/dropfour/internal/model"
	"github.com/tomkite/dropfour/internal/services/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionManager binds websocket connections to room occupants and routes
// their messages into the game coordinator
type SessionManager struct {
	hubs   *HubManager
	games  game.ControllerInterface
	clock  clock.Clock
	logger *slog.Logger
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(hubs *HubManager, games game.ControllerInterface, clock clock.Clock, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		hubs:   hubs,
		games:  games,
		clock:  clock,
		logger: logger.With(slog.String("component", "ws-session")),
	}
}

// Attach upgrades the request and binds the connection as the player's
// channel. The caller has already verified the player belongs to the
// room. The new channel immediately receives a state snapshot.
func (s *SessionManager) Attach(w http.ResponseWriter, r *http.Request, roomID model.RoomID, playerID model.PlayerID) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	hub := s.hubs.GetOrCreateHub(roomID)
	client := newClient(hub, s, conn, roomID, playerID)
	hub.Register(client)

	go client.writePump()
	go client.readPump()

	s.pushSnapshot(r.Context(), client)
	return nil
}

// pushSnapshot sends the current game state to a single channel so a
// reconnecting player can redraw the board
func (s *SessionManager) pushSnapshot(ctx context.Context, client *Client) {
	g, err := s.games.Snapshot(ctx, client.roomID)
	if err != nil {
		client.logger.Warn("ws snapshot unavailable", slog.Any("error", err))
		return
	}

	data, err := EncodeEvent(model.Event{
		Type:      model.EventState,
		Timestamp: s.clock.Now(),
		RoomID:    client.roomID,
		Payload: model.StatePayload{
			Board:     g.Board,
			Row:       -1,
			Col:       -1,
			Turn:      g.CurrentPlayer(),
			MoveCount: g.MoveCount,
		},
	})
	if err != nil {
		client.logger.Error("ws snapshot encode failed", slog.Any("error", err))
		return
	}
	client.Send(data)
}

// dispatch routes one inbound message. Rejections go back on the sending
// channel only; accepted events reach the room via the coordinator's
// broadcast path.
func (s *SessionManager) dispatch(client *Client, msg ClientMessage) {
	ctx := context.Background()

	switch msg.Type {
	case MsgMove:
		if msg.Column == nil {
			client.Send(EncodeError("bad_message", "move requires a column", s.clock.Now()))
			return
		}
		if _, err := s.games.Move(ctx, client.roomID, client.playerID, *msg.Column); err != nil {
			client.Send(EncodeError(errorCode(err), err.Error(), s.clock.Now()))
		}

	case MsgReset:
		if _, err := s.games.Reset(ctx, client.roomID, client.playerID); err != nil {
			client.Send(EncodeError(errorCode(err), err.Error(), s.clock.Now()))
		}

	default:
		client.logger.Warn("ws unknown message type", slog.String("type", msg.Type))
		client.Send(EncodeError("bad_message", "unknown message type: "+msg.Type, s.clock.Now()))
	}
}

// channelClosed is called when a channel's read loop exits. Only the
// live binding for the player reports a disconnect; a channel that was
// superseded by a newer connection goes away silently.
func (s *SessionManager) channelClosed(client *Client) {
	wasBound := client.hub.IsBound(client)
	client.hub.Unregister(client)
	if wasBound {
		s.games.Disconnect(context.Background(), client.roomID, client.playerID)
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrGameNotStarted):
		return "game_not_started"
	case errors.Is(err, model.ErrGameOver):
		return "game_over"
	case errors.Is(err, model.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, model.ErrInvalidColumn):
		return "invalid_column"
	case errors.Is(err, model.ErrColumnFull):
		return "column_full"
	case errors.Is(err, model.ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, model.ErrRoomNotFound), errors.Is(err, model.ErrGameNotFound):
		return "not_found"
	default:
		return "internal_error"
	}
}
