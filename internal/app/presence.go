package app

import (
	"chat-relay/internal/core"
	"chat-relay/internal/domain"
)

// OnlineSnapshot derives the live user list: every registry binding
// whose connection is still live, in identification order. Recomputed
// on every call, never cached, so it is always consistent with the
// registry at call time.
func OnlineSnapshot(reg *Registry, live func(core.ConnID) bool) []domain.OnlineUser {
	bindings := reg.Bindings()
	out := make([]domain.OnlineUser, 0, len(bindings))
	for _, u := range bindings {
		if live(core.ConnID(u.ID)) {
			out = append(out, u)
		}
	}
	return out
}
