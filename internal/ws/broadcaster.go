package ws

import (
	"context"
	"log/slog"

	"github.com/tomkite/dropfour/internal/model"
)

// Broadcaster fans coordinator events out to every channel in the
// event's room. It satisfies the coordinator's Notifier contract:
// Publish runs under the room lock, so encoding happens before any
// further mutation and enqueueing never blocks.
type Broadcaster struct {
	hubs   *HubManager
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubs *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubs:   hubs,
		logger: logger.With(slog.String("component", "ws-broadcaster")),
	}
}

// Publish encodes an event and hands it to the room's hub. Rooms with no
// hub yet have no channels to notify, so the event is dropped.
func (b *Broadcaster) Publish(ctx context.Context, event model.Event) {
	hub := b.hubs.GetHub(event.RoomID)
	if hub == nil {
		return
	}

	data, err := EncodeEvent(event)
	if err != nil {
		b.logger.Error("ws event encode failed",
			slog.String("room_id", string(event.RoomID)),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.Broadcast(data)
}
