package action

import (
	"testing"

	"github.com/l1jgo/paradox/internal/behavior"
	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/data"
	"github.com/l1jgo/paradox/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defs = `
items:
  - id: blank_recorder
    recorder: true
  - id: cloner
    on_use: cloner
  - id: crystal
    max_stack: 5
  - id: lens
recipes:
  - id: grind_lens
    inputs: {crystal: 2}
    output: lens
    score: 3
buildings:
  - id: digitizer
    on_interact: digitizer
  - id: statue
tiles:
  - id: floor
  - id: wall
    solid: true
actors:
  - id: player
  - id: clone
`

type fixture struct {
	st     *world.State
	exec   *Executor
	player world.ActorID
}

func newFixture(t *testing.T, w, h int) *fixture {
	t.Helper()
	a, err := data.Parse([]byte(defs))
	require.NoError(t, err)
	bound, err := behavior.NewTable(nil).Bind(a)
	require.NoError(t, err)

	_, floor, _ := a.Tiles.Lookup("floor")
	wld := world.NewWorld(w, h)
	wld.Tiles.Each(func(c grid.Coord, _ data.Ref) { _ = wld.Tiles.Set(c, floor) })
	st := world.NewState(wld, a, world.Rules{InventorySize: 3, CloneKind: "clone", ClonerItem: "cloner", SpawnEmission: 9})

	u := st.NewUpdate()
	id, err := u.Spawn(&world.Actor{Kind: "player", Player: true, Alive: true, Inventory: world.NewInventory(3)}, grid.Coord{})
	require.NoError(t, err)
	require.NoError(t, u.Commit())
	st.Player = id
	return &fixture{st: st, exec: NewExecutor(bound), player: id}
}

// do executes and commits, returning the execution error.
func (f *fixture) do(t *testing.T, a world.Action) error {
	t.Helper()
	u, err := f.exec.Execute(f.st, f.player, a)
	if err != nil {
		return err
	}
	require.NoError(t, u.Commit())
	return nil
}

func (f *fixture) self(t *testing.T) *world.Actor {
	t.Helper()
	a, err := f.st.Actors.Get(f.player)
	require.NoError(t, err)
	return a
}

func (f *fixture) at(t *testing.T) grid.Coord {
	t.Helper()
	c, ok := f.st.Locate(f.player)
	require.True(t, ok)
	return c
}

func TestMoveUpdatesCellAndFacing(t *testing.T) {
	f := newFixture(t, 2, 2)
	require.NoError(t, f.do(t, world.Move(world.Abs(grid.East))))
	assert.Equal(t, grid.Coord{X: 1}, f.at(t))
	assert.Equal(t, grid.East, f.self(t).Facing)

	// Facing east, "left" is north.
	require.NoError(t, f.do(t, world.Move(world.Rel(world.Left))))
	assert.Equal(t, grid.Coord{X: 1, Y: 1}, f.at(t))
	assert.Equal(t, grid.North, f.self(t).Facing)

	_, occupied, _ := f.st.World.Actors.Get(grid.Coord{})
	assert.False(t, occupied, "source cell cleared")
}

func TestMoveFailures(t *testing.T) {
	f := newFixture(t, 2, 1)
	_, wall, _ := f.st.Defs.Tiles.Lookup("wall")

	cases := map[string]world.Action{
		"here":     world.Move(world.Here),
		"off grid": world.Move(world.Abs(grid.West)),
		"north":    world.Move(world.Abs(grid.North)),
	}
	for name, a := range cases {
		_, err := f.exec.Execute(f.st, f.player, a)
		assert.True(t, fault.IsRecoverable(err), name)
	}

	require.NoError(t, f.st.World.Tiles.Set(grid.Coord{X: 1}, wall))
	_, err := f.exec.Execute(f.st, f.player, world.Move(world.Abs(grid.East)))
	assert.True(t, fault.IsRecoverable(err), "solid")

	require.NoError(t, f.st.World.Tiles.Set(grid.Coord{X: 1}, 0))
	u := f.st.NewUpdate()
	_, err = u.Spawn(&world.Actor{Kind: "clone", Alive: true}, grid.Coord{X: 1})
	require.NoError(t, err)
	require.NoError(t, u.Commit())
	_, err = f.exec.Execute(f.st, f.player, world.Move(world.Abs(grid.East)))
	assert.True(t, fault.IsRecoverable(err), "occupied")
	assert.Equal(t, grid.Coord{}, f.at(t))
}

func TestTakeAndDrop(t *testing.T) {
	f := newFixture(t, 2, 1)
	require.NoError(t, f.st.World.Items.Set(grid.Coord{X: 1}, &world.Item{Kind: "crystal", Quantity: 2}))

	require.NoError(t, f.do(t, world.Take(world.Abs(grid.East))))
	assert.Equal(t, 2, f.self(t).Inventory.Count("crystal"))
	it, _ := f.st.World.Items.Get(grid.Coord{X: 1})
	assert.Nil(t, it)

	err := f.do(t, world.Take(world.Abs(grid.East)))
	assert.True(t, fault.IsRecoverable(err))

	require.NoError(t, f.do(t, world.Drop(0, world.Here)))
	it, _ = f.st.World.Items.Get(grid.Coord{})
	require.NotNil(t, it)
	assert.Equal(t, 2, it.Quantity)
	assert.Nil(t, f.self(t).Inventory.Slots[0])

	f.self(t).Inventory.Slots[1] = &world.Item{Kind: "lens", Quantity: 1}
	err = f.do(t, world.Drop(1, world.Here))
	assert.True(t, fault.IsRecoverable(err), "floor already holds an item")
	assert.NotNil(t, f.self(t).Inventory.Slots[1])
}

func TestCraft(t *testing.T) {
	f := newFixture(t, 1, 1)
	f.self(t).Inventory.Slots[0] = &world.Item{Kind: "crystal", Quantity: 3}

	u, err := f.exec.Execute(f.st, f.player, world.Craft("grind_lens"))
	require.NoError(t, err)
	assert.Equal(t, []string{"grind_lens"}, u.Crafted)
	require.NoError(t, u.Commit())

	inv := f.self(t).Inventory
	assert.Equal(t, 1, inv.Count("crystal"))
	assert.Equal(t, 1, inv.Count("lens"))
	assert.Equal(t, 3, f.st.Score)

	_, err = f.exec.Execute(f.st, f.player, world.Craft("grind_lens"))
	assert.True(t, fault.IsRecoverable(err), "insufficient ingredients")
	_, err = f.exec.Execute(f.st, f.player, world.Craft("bake_bread"))
	assert.True(t, fault.IsRecoverable(err), "unknown recipe")
	assert.Equal(t, 1, f.self(t).Inventory.Count("crystal"))
}

func TestCraftFailsWhenInventoryFull(t *testing.T) {
	f := newFixture(t, 1, 1)
	inv := f.self(t).Inventory
	inv.Slots[0] = &world.Item{Kind: "crystal", Quantity: 5}
	inv.Slots[1] = &world.Item{Kind: "crystal", Quantity: 5}
	inv.Slots[2] = &world.Item{Kind: "blank_recorder", Quantity: 1}

	// Consuming 2 crystals leaves no empty slot for the lens.
	_, err := f.exec.Execute(f.st, f.player, world.Craft("grind_lens"))
	assert.True(t, fault.IsRecoverable(err))
	assert.Equal(t, 10, f.self(t).Inventory.Count("crystal"))
}

func TestRecordLifecycle(t *testing.T) {
	f := newFixture(t, 1, 1)
	inv := f.self(t).Inventory
	inv.Slots[0] = &world.Item{Kind: "crystal", Quantity: 2}
	inv.Slots[1] = &world.Item{Kind: "blank_recorder", Quantity: 1}

	err := f.do(t, world.Record(0))
	assert.True(t, fault.IsRecoverable(err), "crystal is not a recorder")
	err = f.do(t, world.EndRecording(false))
	assert.True(t, fault.IsRecoverable(err), "not recording")

	require.NoError(t, f.do(t, world.Record(1)))
	require.NotNil(t, f.st.Recorder)
	assert.Equal(t, 1, f.st.Recorder.Slot)
	assert.Nil(t, f.st.Recorder.Inventory.Slots[1], "snapshot excludes the recorder")
	assert.Equal(t, 2, f.st.Recorder.Inventory.Count("crystal"))

	err = f.do(t, world.Record(1))
	assert.True(t, fault.IsRecoverable(err), "already recording")
	err = f.do(t, world.EndRecording(false))
	assert.True(t, fault.IsRecoverable(err), "nothing recorded")

	f.st.Recorder.Actions = append(f.st.Recorder.Actions, world.Wait())
	require.NoError(t, f.do(t, world.EndRecording(true)))
	assert.Nil(t, f.st.Recorder)

	cl := f.self(t).Inventory.Slots[1]
	require.NotNil(t, cl)
	assert.Equal(t, "cloner", cl.Kind)
	assert.True(t, cl.Bound)
	rec, err := f.st.Recordings.Get(cl.Recording)
	require.NoError(t, err)
	assert.True(t, rec.Loop)
	assert.Equal(t, []world.Action{world.Wait()}, rec.Actions)
}

func TestUseAndInteractDispatch(t *testing.T) {
	f := newFixture(t, 2, 1)
	_, statue, _ := f.st.Defs.Buildings.Lookup("statue")
	_, digitizer, _ := f.st.Defs.Buildings.Lookup("digitizer")

	_, err := f.exec.Execute(f.st, f.player, world.Interact(world.Abs(grid.East)))
	assert.True(t, fault.IsRecoverable(err), "no building")

	require.NoError(t, f.st.World.Buildings.Set(grid.Coord{X: 1}, statue))
	_, err = f.exec.Execute(f.st, f.player, world.Interact(world.Abs(grid.East)))
	assert.True(t, fault.IsRecoverable(err), "building without behavior")

	require.NoError(t, f.st.World.Buildings.Set(grid.Coord{X: 1}, digitizer))
	require.NoError(t, f.st.World.Items.Set(grid.Coord{X: 1}, &world.Item{Kind: "lens", Quantity: 1}))
	require.NoError(t, f.do(t, world.Interact(world.Abs(grid.East))))
	assert.Equal(t, 1, f.self(t).Inventory.Count("lens"))

	f.self(t).Inventory.Slots[2] = &world.Item{Kind: "crystal", Quantity: 1}
	_, err = f.exec.Execute(f.st, f.player, world.Use(2, world.Here))
	assert.True(t, fault.IsRecoverable(err), "crystal has no use")
	_, err = f.exec.Execute(f.st, f.player, world.Use(1, world.Here))
	assert.True(t, fault.IsRecoverable(err), "empty slot")
}
