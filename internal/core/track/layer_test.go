package track

import (
	"testing"

	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type actorID int

func TestSetUpdatesIndex(t *testing.T) {
	l := New[actorID](3, 3)
	require.NoError(t, l.Set(grid.Coord{X: 1, Y: 2}, 4))

	id, ok, err := l.Get(grid.Coord{X: 1, Y: 2})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, actorID(4), id)

	at, ok := l.Locate(4)
	require.True(t, ok)
	assert.Equal(t, grid.Coord{X: 1, Y: 2}, at)

	_, ok, err = l.Get(grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextIDNeverLive(t *testing.T) {
	l := New[actorID](4, 1)
	for i := 0; i < 4; i++ {
		id := l.NextID()
		for _, live := range l.IDs() {
			require.NotEqual(t, live, id)
		}
		require.NoError(t, l.Set(grid.Coord{X: i, Y: 0}, id))
	}
	require.NoError(t, l.Remove(1))
	require.NoError(t, l.Remove(3))

	next := l.NextID()
	assert.Equal(t, actorID(4), next, "removed ids are not reused")
	assert.Equal(t, []actorID{0, 2}, l.IDs())
}

func TestRemoveClearsCell(t *testing.T) {
	l := New[actorID](2, 1)
	require.NoError(t, l.Set(grid.Coord{X: 1, Y: 0}, 0))
	require.NoError(t, l.Remove(0))

	_, ok, err := l.Get(grid.Coord{X: 1, Y: 0})
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok = l.Locate(0)
	assert.False(t, ok)
}

func TestStagedMoveIsAtomic(t *testing.T) {
	l := New[actorID](1, 3)
	require.NoError(t, l.Set(grid.Coord{X: 0, Y: 0}, 0))

	s := Stage(l)
	require.NoError(t, s.Move(0, grid.Coord{X: 0, Y: 2}))

	at, ok, err := s.Locate(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, grid.Coord{X: 0, Y: 2}, at)

	live, _ := l.Locate(0)
	assert.Equal(t, grid.Coord{X: 0, Y: 0}, live, "source untouched before apply")

	require.NoError(t, s.Apply(l))

	_, occupied, err := l.Get(grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)
	assert.False(t, occupied)
	id, occupied, err := l.Get(grid.Coord{X: 0, Y: 2})
	require.NoError(t, err)
	require.True(t, occupied)
	assert.Equal(t, actorID(0), id)
	live, _ = l.Locate(0)
	assert.Equal(t, grid.Coord{X: 0, Y: 2}, live)

	_, _, err = s.Locate(0)
	assert.ErrorIs(t, err, fault.ErrConsumed)
}

func TestStagedRemoveAndMint(t *testing.T) {
	l := New[actorID](2, 2)
	require.NoError(t, l.Set(grid.Coord{X: 0, Y: 0}, 0))

	s := Stage(l)
	fresh := s.NextID()
	assert.Equal(t, actorID(1), fresh)
	require.NoError(t, s.Set(grid.Coord{X: 1, Y: 1}, fresh))
	require.NoError(t, s.Remove(0))
	assert.Equal(t, actorID(2), s.NextID())

	require.NoError(t, s.Apply(l))
	assert.Equal(t, []actorID{1}, l.IDs())
	assert.Equal(t, actorID(2), l.NextID())
}

func TestSetPlacedIDLeavesOldCell(t *testing.T) {
	l := New[actorID](3, 1)
	require.NoError(t, l.Set(grid.Coord{X: 0, Y: 0}, 7))
	require.NoError(t, l.Set(grid.Coord{X: 2, Y: 0}, 7))

	_, occupied, err := l.Get(grid.Coord{X: 0, Y: 0})
	require.NoError(t, err)
	assert.False(t, occupied)
	at, ok := l.Locate(7)
	require.True(t, ok)
	assert.Equal(t, grid.Coord{X: 2, Y: 0}, at)
	assert.Equal(t, 1, l.Len())
}

func TestStagedSetPlacedIDLeavesOldCell(t *testing.T) {
	l := New[actorID](3, 1)
	require.NoError(t, l.Set(grid.Coord{X: 0, Y: 0}, 0))

	s := Stage(l)
	require.NoError(t, s.Set(grid.Coord{X: 1, Y: 0}, 0))
	require.NoError(t, s.Set(grid.Coord{X: 2, Y: 0}, 0))

	for _, c := range []grid.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}} {
		_, occupied, err := s.Get(c)
		require.NoError(t, err)
		assert.False(t, occupied, "staged %v", c)
	}
	require.NoError(t, s.Apply(l))

	for _, c := range []grid.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}} {
		_, occupied, err := l.Get(c)
		require.NoError(t, err)
		assert.False(t, occupied, "live %v", c)
	}
	id, occupied, err := l.Get(grid.Coord{X: 2, Y: 0})
	require.NoError(t, err)
	require.True(t, occupied)
	assert.Equal(t, actorID(0), id)
	at, _ := l.Locate(0)
	assert.Equal(t, grid.Coord{X: 2, Y: 0}, at)
}
