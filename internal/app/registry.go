package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"chat-relay/internal/core"
	"chat-relay/internal/domain"
)

// Registry maps each connection to the display name it claimed. A
// connection has at most one binding; a later Identify replaces it.
// Names are not unique across connections.
type Registry struct {
	mu    sync.RWMutex
	names map[core.ConnID]string
	// identification order; drives snapshot ordering and the
	// first-match policy of ResolveConn
	order []core.ConnID
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[core.ConnID]string)}
}

// Identify stores or overwrites the binding and returns every claimed
// name in identification order. Idempotent under repeated identical
// calls.
func (r *Registry) Identify(id core.ConnID, name string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[id]; !ok {
		r.order = append(r.order, id)
	}
	r.names[id] = name
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Str("name", name).Msg("identified")
	out := make([]string, 0, len(r.order))
	for _, cid := range r.order {
		out = append(out, r.names[cid])
	}
	return out
}

// ResolveName looks up the binding. ok is false when the connection
// never identified; callers treat that as the empty sender name.
func (r *Registry) ResolveName(id core.ConnID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[id]
	return name, ok
}

// ResolveConn returns the first connection that claimed name, in
// identification order. With duplicate names the first match wins.
func (r *Registry) ResolveConn(name string) (core.ConnID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cid := range r.order {
		if r.names[cid] == name {
			return cid, true
		}
	}
	return "", false
}

// Remove deletes the binding. No-op if absent.
func (r *Registry) Remove(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[id]; !ok {
		return
	}
	delete(r.names, id)
	for i, cid := range r.order {
		if cid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("binding removed")
}

// Bindings returns every (connection, name) pair in identification
// order.
func (r *Registry) Bindings() []domain.OnlineUser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.OnlineUser, 0, len(r.order))
	for _, cid := range r.order {
		out = append(out, domain.OnlineUser{ID: string(cid), Name: r.names[cid]})
	}
	return out
}
