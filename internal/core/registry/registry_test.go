package registry

import (
	"testing"

	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	N    int
	Tags []string
}

func (c *counter) Clone() *counter {
	cp := *c
	cp.Tags = append([]string(nil), c.Tags...)
	return &cp
}

func seeded(t *testing.T, n int) *Registry[*counter] {
	t.Helper()
	r := New[*counter]()
	for i := 0; i < n; i++ {
		r.Insert(&counter{N: i})
	}
	return r
}

func TestReadCopiesOnFirstTouch(t *testing.T) {
	r := seeded(t, 2)
	u := r.NewUpdate()

	c, err := r.Read(u, 1)
	require.NoError(t, err)
	c.N = 99
	c.Tags = append(c.Tags, "moved")

	again, err := r.Read(u, 1)
	require.NoError(t, err)
	assert.Same(t, c, again, "second read returns the staged copy")

	live, err := r.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 1, live.N, "live value untouched before apply")
	assert.Empty(t, live.Tags)

	require.NoError(t, r.Apply(u))
	live, _ = r.Get(1)
	assert.Equal(t, 99, live.N)
	assert.Equal(t, []ID{1}, u.Changed())
}

func TestRegisterPreallocatesIDs(t *testing.T) {
	r := seeded(t, 3)
	u := r.NewUpdate()

	a, err := r.Register(u, &counter{N: 10})
	require.NoError(t, err)
	b, err := r.Register(u, &counter{N: 11})
	require.NoError(t, err)
	assert.Equal(t, ID(3), a)
	assert.Equal(t, ID(4), b)

	staged, err := r.Read(u, b)
	require.NoError(t, err)
	staged.N = 12
	assert.Empty(t, u.Changed(), "reading a new id does not mark it changed")

	require.NoError(t, r.Apply(u))
	assert.Equal(t, 5, r.Len())
	v, _ := r.Get(4)
	assert.Equal(t, 12, v.N)
}

func TestReadManyRejectsDuplicates(t *testing.T) {
	r := seeded(t, 3)
	u := r.NewUpdate()
	_, err := r.ReadMany(u, 0, 2, 0)
	assert.Error(t, err)

	vs, err := r.ReadMany(r.NewUpdate(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, vs, 2)
}

// A change set naming a missing id fails as a state-update error and leaves
// every entry, including the valid ones from the same update, uncommitted.
func TestApplyWithMissingChangedIDCommitsNothing(t *testing.T) {
	r := seeded(t, 2)
	u := r.NewUpdate()

	c, err := r.Read(u, 0)
	require.NoError(t, err)
	c.N = 50
	_, err = r.Register(u, &counter{N: 7})
	require.NoError(t, err)
	u.changes = append(u.changes, 5)

	err = r.Apply(u)
	require.Error(t, err)
	assert.True(t, fault.IsStateUpdate(err))

	assert.Equal(t, 2, r.Len(), "no insert committed")
	live, _ := r.Get(0)
	assert.Equal(t, 0, live.N, "earlier valid change not committed")
}

func TestApplyRejectsStaleNewIDs(t *testing.T) {
	r := seeded(t, 1)
	u := r.NewUpdate()
	_, err := r.Register(u, &counter{})
	require.NoError(t, err)

	r.Insert(&counter{N: 1})
	err = r.Apply(u)
	assert.True(t, fault.IsStateUpdate(err))
	assert.Equal(t, 2, r.Len())
}

func TestApplyRejectsDuplicateChange(t *testing.T) {
	r := seeded(t, 1)
	u := r.NewUpdate()
	_, err := r.Read(u, 0)
	require.NoError(t, err)
	u.changes = append(u.changes, 0)
	assert.True(t, fault.IsStateUpdate(r.Apply(u)))
}

func TestUpdateSingleUse(t *testing.T) {
	r := seeded(t, 1)
	u := r.NewUpdate()
	require.NoError(t, r.Apply(u))

	_, err := r.Read(u, 0)
	assert.ErrorIs(t, err, fault.ErrConsumed)
	assert.ErrorIs(t, r.Apply(u), fault.ErrConsumed)
	_, err = r.View(u, 0)
	assert.ErrorIs(t, err, fault.ErrConsumed)
}

func TestViewDoesNotStage(t *testing.T) {
	r := seeded(t, 1)
	u := r.NewUpdate()
	v, err := r.View(u, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, v.N)
	assert.Empty(t, u.Changed())

	_, err = r.Get(3)
	assert.Error(t, err)
}
