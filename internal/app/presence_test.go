package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-relay/internal/core"
	"chat-relay/internal/domain"
)

func TestOnlineSnapshotFiltersDeadConnections(t *testing.T) {
	reg := NewRegistry()
	reg.Identify("c1", "alice")
	reg.Identify("c2", "bob")
	reg.Identify("c3", "carol")

	live := map[core.ConnID]bool{"c1": true, "c3": true}
	snap := OnlineSnapshot(reg, func(id core.ConnID) bool { return live[id] })

	require.Equal(t, []domain.OnlineUser{
		{ID: "c1", Name: "alice"},
		{ID: "c3", Name: "carol"},
	}, snap)
}

func TestOnlineSnapshotAlwaysFresh(t *testing.T) {
	reg := NewRegistry()
	reg.Identify("c1", "alice")
	all := func(core.ConnID) bool { return true }

	require.Len(t, OnlineSnapshot(reg, all), 1)
	reg.Identify("c1", "alicia")
	snap := OnlineSnapshot(reg, all)
	require.Equal(t, "alicia", snap[0].Name)
	reg.Remove("c1")
	require.Empty(t, OnlineSnapshot(reg, all))
}
