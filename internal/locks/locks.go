// Package locks provides process-wide per-room mutexes. All events that
// touch one room (join, move, reset, disconnect) serialize through the
// room's mutex; events for different rooms proceed in parallel.
package locks

import (
	"sync"

	"github.com/tomkite/dropfour/internal/model"
)

// Table maps room IDs to their mutexes. Entries are never removed; the
// table grows with the number of rooms created over the process lifetime,
// which garbage collection of stale rooms keeps bounded.
type Table struct {
	mu    sync.Mutex
	locks map[model.RoomID]*sync.Mutex
}

// NewTable creates an empty lock table
func NewTable() *Table {
	return &Table{
		locks: make(map[model.RoomID]*sync.Mutex),
	}
}

// For returns the mutex for a room, creating it on first use
func (t *Table) For(roomID model.RoomID) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	if l, ok := t.locks[roomID]; ok {
		return l
	}
	l := &sync.Mutex{}
	t.locks[roomID] = l
	return l
}
