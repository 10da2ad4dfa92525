package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentifyReturnsClaimedNamesInOrder(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, []string{"alice"}, r.Identify("c1", "alice"))
	require.Equal(t, []string{"alice", "bob"}, r.Identify("c2", "bob"))
}

func TestIdentifyIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Identify("c1", "frank")
	names := r.Identify("c1", "frank")
	require.Equal(t, []string{"frank"}, names)

	name, ok := r.ResolveName("c1")
	require.True(t, ok)
	require.Equal(t, "frank", name)
}

func TestIdentifyLastWriteWins(t *testing.T) {
	r := NewRegistry()
	r.Identify("c1", "alice")
	r.Identify("c1", "alicia")

	name, ok := r.ResolveName("c1")
	require.True(t, ok)
	require.Equal(t, "alicia", name)
	require.Equal(t, []string{"alicia"}, r.Identify("c1", "alicia"))
}

func TestResolveNameAbsent(t *testing.T) {
	r := NewRegistry()
	name, ok := r.ResolveName("ghost")
	require.False(t, ok)
	require.Empty(t, name)
}

func TestResolveConnFirstMatchOnDuplicateNames(t *testing.T) {
	r := NewRegistry()
	r.Identify("c1", "erin")
	r.Identify("c2", "erin")

	id, ok := r.ResolveConn("erin")
	require.True(t, ok)
	require.Equal(t, "c1", string(id))
}

func TestResolveConnAbsent(t *testing.T) {
	r := NewRegistry()
	_, ok := r.ResolveConn("nobody")
	require.False(t, ok)
}

func TestRemoveDeletesBinding(t *testing.T) {
	r := NewRegistry()
	r.Identify("c1", "alice")
	r.Identify("c2", "bob")
	r.Remove("c1")

	_, ok := r.ResolveName("c1")
	require.False(t, ok)
	require.Equal(t, []string{"bob", "alice"}, r.Identify("c1", "alice"))
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.Identify("c1", "alice")
	r.Remove("ghost")
	require.Equal(t, []string{"alice"}, r.Identify("c1", "alice"))
}

func TestBindingsKeepIdentificationOrder(t *testing.T) {
	r := NewRegistry()
	r.Identify("c1", "alice")
	r.Identify("c2", "bob")
	r.Identify("c1", "alicia") // rename keeps position

	bindings := r.Bindings()
	require.Len(t, bindings, 2)
	require.Equal(t, "c1", bindings[0].ID)
	require.Equal(t, "alicia", bindings[0].Name)
	require.Equal(t, "bob", bindings[1].Name)
}
