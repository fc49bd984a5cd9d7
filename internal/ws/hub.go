package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tomkite/dropfour/internal/model"
)

// Hub manages the channels bound to a single room. At most one channel
// is live per player: registering a new channel for a player closes the
// previous one (last connection wins).
type Hub struct {
	roomID   model.RoomID
	clients  map[*Client]bool
	byPlayer map[model.PlayerID]*Client
	mu       sync.RWMutex
	logger   *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a new Hub for a room
func NewHub(roomID model.RoomID, logger *slog.Logger) *Hub {
	return &Hub{
		roomID:     roomID,
		clients:    make(map[*Client]bool),
		byPlayer:   make(map[model.PlayerID]*Client),
		logger:     logger.With(slog.String("room_id", string(roomID))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("ws hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.byPlayer[client.playerID]; ok {
				delete(h.clients, old)
				close(old.send)
				h.logger.Info("ws channel superseded",
					slog.String("player_id", string(client.playerID)))
			}
			h.clients[client] = true
			h.byPlayer[client.playerID] = client
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("ws channel registered",
				slog.String("player_id", string(client.playerID)),
				slog.Int("total_channels", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if h.byPlayer[client.playerID] == client {
					delete(h.byPlayer, client.playerID)
				}
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				duration := time.Since(client.connectedAt)
				h.logger.Info("ws channel unregistered",
					slog.String("player_id", string(client.playerID)),
					slog.Duration("connection_duration", duration),
					slog.Int("total_channels", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.logger.Warn("ws message dropped - channel buffer full",
						slog.String("player_id", string(client.playerID)))
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.byPlayer = make(map[model.PlayerID]*Client)
			h.mu.Unlock()
			h.logger.Info("ws hub stopped", slog.Int("disconnected_channels", clientCount))
			return
		}
	}
}

// Register adds a channel to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a channel from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends a message to every channel in the room
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("ws broadcast dropped - hub buffer full")
	}
}

// IsBound reports whether the given client is still the live channel for
// its player
func (h *Hub) IsBound(client *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.byPlayer[client.playerID] == client
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of live channels
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager manages hubs for all rooms
type HubManager struct {
	hubs   map[model.RoomID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RoomID]*Hub),
		logger: logger.With(slog.String("component", "ws")),
	}
}

// GetOrCreateHub returns the hub for a room, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(roomID model.RoomID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		return hub
	}

	hub := NewHub(roomID, m.logger)
	m.hubs[roomID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *HubManager) GetHub(roomID model.RoomID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomID]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(roomID model.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		hub.Close()
		delete(m.hubs, roomID)
		m.logger.Info("ws hub removed", slog.String("room_id", string(roomID)))
	}
}

// CleanupEmptyHubs removes hubs with no channels
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for roomID, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, roomID)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("ws empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}
