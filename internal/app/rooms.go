package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"chat-relay/internal/core"
)

// Rooms tracks which connections joined which room names. This is the
// group-membership primitive: a room exists exactly while it has
// members, and a connection may belong to any number of rooms.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]map[core.ConnID]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[string]map[core.ConnID]struct{})}
}

func (r *Rooms) Join(room string, id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[core.ConnID]struct{})
		r.rooms[room] = members
	}
	members[id] = struct{}{}
	log.Info().Str("module", "app.rooms").Str("room", room).Str("sid", string(id)).Int("members", len(members)).Msg("joined room")
}

func (r *Rooms) Leave(room string, id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	log.Info().Str("module", "app.rooms").Str("room", room).Str("sid", string(id)).Msg("left room")
}

// LeaveAll drops the connection from every room it joined.
func (r *Rooms) LeaveAll(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for room, members := range r.rooms {
		delete(members, id)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

// Members returns the connections currently joined to room, empty if
// the room does not exist.
func (r *Rooms) Members(room string) []core.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[room]
	out := make([]core.ConnID, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}

// Shared reports whether any room contains both connections.
func (r *Rooms) Shared(a, b core.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, members := range r.rooms {
		if _, ok := members[a]; !ok {
			continue
		}
		if _, ok := members[b]; ok {
			return true
		}
	}
	return false
}
