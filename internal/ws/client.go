package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomkite/dropfour/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
)

// Client is one live channel: a websocket connection bound to a player
// in a room
type Client struct {
	hub      *Hub
	session  *SessionManager
	conn     *websocket.Conn
	send     chan []byte
	roomID   model.RoomID
	playerID model.PlayerID

	connectedAt time.Time
	logger      *slog.Logger
}

func newClient(hub *Hub, session *SessionManager, conn *websocket.Conn, roomID model.RoomID, playerID model.PlayerID) *Client {
	return &Client{
		hub:         hub,
		session:     session,
		conn:        conn,
		send:        make(chan []byte, 256),
		roomID:      roomID,
		playerID:    playerID,
		connectedAt: session.clock.Now(),
		logger: session.logger.With(
			slog.String("room_id", string(roomID)),
			slog.String("player_id", string(playerID)),
		),
	}
}

// Send queues a message for this channel only, dropping it if the buffer
// is full
func (c *Client) Send(message []byte) {
	select {
	case c.send <- message:
	default:
		c.logger.Warn("ws direct message dropped - channel buffer full")
	}
}

// readPump reads client messages until the connection drops, dispatching
// each to the session manager
func (c *Client) readPump() {
	defer func() {
		c.session.channelClosed(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("ws read error", slog.Any("error", err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("ws invalid message", slog.Any("error", err))
			c.Send(EncodeError("bad_message", "message is not valid JSON", c.session.clock.Now()))
			continue
		}

		c.session.dispatch(c, msg)
	}
}

// writePump flushes queued messages and keeps the connection alive with
// pings. Exits when the hub closes the send channel or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
