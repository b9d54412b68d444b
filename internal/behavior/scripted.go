package behavior

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/scripting"
	"github.com/l1jgo/paradox/internal/world"
)

// scripted runs a Lua function and turns its commands into staged changes.
// Offsets in commands are relative to the target cell.
type scripted struct {
	fn      string
	scripts Scripts
}

func (s *scripted) Apply(st *world.State, ctx Context) (*world.Update, error) {
	self, err := st.Actors.Get(ctx.Actor)
	if err != nil {
		return nil, err
	}
	in := scripting.BehaviorContext{
		X: ctx.At.X, Y: ctx.At.Y,
		TX: ctx.Target.X, TY: ctx.Target.Y,
		Facing: self.Facing.String(),
		Slot:   ctx.Slot,
		Player: self.Player,
	}
	if ctx.Slot >= 0 {
		if it, err := self.Inventory.Get(ctx.Slot); err == nil && it != nil {
			in.Item = it.Kind
		}
	}
	if st.World.InBounds(ctx.Target) {
		if ref, err := st.World.Buildings.Get(ctx.Target); err == nil {
			if def := st.Defs.Buildings.Get(ref); def != nil {
				in.Building = def.ID
			}
		}
		in.Paradox, _ = st.World.Paradox.Get(ctx.Target)
	}

	cmds, err := s.scripts.RunBehavior(s.fn, in)
	if err != nil {
		return nil, err
	}

	u := st.NewUpdate()
	for i, c := range cmds {
		if err := apply(st, u, ctx, c); err != nil {
			if fault.IsRecoverable(err) {
				return nil, err
			}
			return nil, fmt.Errorf("lua %s command %d (%s): %w", s.fn, i+1, c.Op, err)
		}
	}
	return u, nil
}

func apply(st *world.State, u *world.Update, ctx Context, c scripting.Command) error {
	at := ctx.Target.Add(grid.Coord{X: c.DX, Y: c.DY})
	switch c.Op {
	case "paradox":
		if !st.World.InBounds(at) {
			return nil
		}
		return u.AddParadox(at, c.Amount)
	case "spawn_item":
		if _, _, ok := st.Defs.Items.Lookup(c.Item); !ok {
			return fmt.Errorf("unknown item %q", c.Item)
		}
		if !st.World.InBounds(at) {
			return fault.Failf("cannot place %s outside the world", c.Item)
		}
		cur, err := u.Items.Get(at)
		if err != nil {
			return err
		}
		if cur != nil {
			return fault.Failf("no room for %s at %v", c.Item, at)
		}
		return u.Items.Set(at, &world.Item{Kind: c.Item, Quantity: max(c.Quantity, 1)})
	case "give":
		if _, _, ok := st.Defs.Items.Lookup(c.Item); !ok {
			return fmt.Errorf("unknown item %q", c.Item)
		}
		a, err := u.Actor(ctx.Actor)
		if err != nil {
			return err
		}
		return a.Inventory.Insert(&world.Item{Kind: c.Item, Quantity: max(c.Quantity, 1)}, st.MaxStack(c.Item))
	case "consume":
		if ctx.Slot < 0 {
			return nil
		}
		a, err := u.Actor(ctx.Actor)
		if err != nil {
			return err
		}
		return a.Inventory.ConsumeSlot(ctx.Slot)
	case "notice":
		u.Notice("%s", c.Message)
		return nil
	case "fail":
		return fault.Failf("%s", c.Message)
	}
	return fmt.Errorf("unknown command op %q", c.Op)
}
