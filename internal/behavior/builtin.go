package behavior

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/world"
)

// Cloner spawns an NPC at the target cell running the recording bound to
// the cloner in ctx.Slot. The clone starts with a deep copy of the
// recording's inventory. One cloner is consumed and the spawn cell takes
// the configured paradox emission.
func Cloner(st *world.State, ctx Context) (*world.Update, error) {
	self, err := st.Actors.Get(ctx.Actor)
	if err != nil {
		return nil, err
	}
	item, err := self.Inventory.Get(ctx.Slot)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.Bound {
		return nil, fault.Failf("the cloner holds no recording")
	}
	rec, err := st.Recordings.Get(item.Recording)
	if err != nil {
		return nil, fmt.Errorf("cloner bound to recording %d: %w", item.Recording, err)
	}
	if err := standable(st, ctx.Target); err != nil {
		return nil, err
	}

	u := st.NewUpdate()
	clone := &world.Actor{
		Kind:      st.Rules.CloneKind,
		Facing:    rec.Facing,
		Recording: item.Recording,
		Inventory: rec.Inventory.Clone(),
		Alive:     true,
	}
	if len(clone.Inventory.Slots) == 0 {
		clone.Inventory = world.NewInventory(st.Rules.InventorySize)
	}
	if _, err := u.Spawn(clone, ctx.Target); err != nil {
		return nil, err
	}
	a, err := u.Actor(ctx.Actor)
	if err != nil {
		return nil, err
	}
	if err := a.Inventory.ConsumeSlot(ctx.Slot); err != nil {
		return nil, err
	}
	if err := u.AddParadox(ctx.Target, st.Rules.SpawnEmission); err != nil {
		return nil, err
	}
	return u, nil
}

// Digitizer copies the item lying on the building's cell into the actor's
// inventory. The copy is deep; the original stays on the floor.
func Digitizer(st *world.State, ctx Context) (*world.Update, error) {
	original, err := st.World.Items.Get(ctx.Target)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fault.Failf("nothing to digitize")
	}
	u := st.NewUpdate()
	a, err := u.Actor(ctx.Actor)
	if err != nil {
		return nil, err
	}
	if err := a.Inventory.Insert(original.Clone(), st.MaxStack(original.Kind)); err != nil {
		return nil, err
	}
	if err := u.AddParadox(ctx.Target, st.Rules.DigitizerEmission); err != nil {
		return nil, err
	}
	u.Notice("digitized %s", original.Kind)
	return u, nil
}

// Stabilizer zeroes the paradox field within the configured radius of the
// target and is consumed.
func Stabilizer(st *world.State, ctx Context) (*world.Update, error) {
	if !st.World.InBounds(ctx.Target) {
		return nil, fault.Failf("nothing there to stabilize")
	}
	u := st.NewUpdate()
	r := st.Rules.StabilizerRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c := ctx.Target.Add(grid.Coord{X: dx, Y: dy})
			if !st.World.InBounds(c) {
				continue
			}
			if err := u.Paradox.Set(c, 0); err != nil {
				return nil, err
			}
		}
	}
	a, err := u.Actor(ctx.Actor)
	if err != nil {
		return nil, err
	}
	if err := a.Inventory.ConsumeSlot(ctx.Slot); err != nil {
		return nil, err
	}
	return u, nil
}

// standable fails unless an actor could stand on c.
func standable(st *world.State, c grid.Coord) error {
	if !st.World.InBounds(c) {
		return fault.Failf("cannot go past the edge at %v", c)
	}
	tile, err := st.World.Tiles.Get(c)
	if err != nil {
		return err
	}
	if def := st.Defs.Tiles.Get(tile); def != nil && def.Solid {
		return fault.Failf("%s blocks the way", def.Name)
	}
	if _, occupied, err := st.World.Actors.Get(c); err != nil {
		return err
	} else if occupied {
		return fault.Failf("cell %v is occupied", c)
	}
	return nil
}

// Standable is exported for action code that moves actors.
func Standable(st *world.State, c grid.Coord) error { return standable(st, c) }
