package action

import (
	"github.com/l1jgo/paradox/internal/behavior"
	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/l1jgo/paradox/internal/world"
)

func move(in input) (*world.Update, error) {
	heading, ok := in.act.Dir.Resolve(in.self.Facing)
	if !ok {
		return nil, fault.Failf("no direction to move in")
	}
	to := in.at.Add(heading.Offset())
	if err := behavior.Standable(in.st, to); err != nil {
		return nil, err
	}
	u := in.st.NewUpdate()
	if err := u.Actors.Move(in.id, to); err != nil {
		return nil, err
	}
	a, err := u.Actor(in.id)
	if err != nil {
		return nil, err
	}
	a.Facing = heading
	return u, nil
}

func take(in input) (*world.Update, error) {
	from := in.target()
	if !in.st.World.InBounds(from) {
		return nil, fault.Failf("nothing to take")
	}
	u := in.st.NewUpdate()
	it, err := u.Items.Get(from)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fault.Failf("nothing to take")
	}
	a, err := u.Actor(in.id)
	if err != nil {
		return nil, err
	}
	if err := a.Inventory.Insert(it.Clone(), in.st.MaxStack(it.Kind)); err != nil {
		return nil, err
	}
	if err := u.Items.Set(from, nil); err != nil {
		return nil, err
	}
	return u, nil
}

func drop(in input) (*world.Update, error) {
	to := in.target()
	if !in.st.World.InBounds(to) {
		return nil, fault.Failf("cannot drop past the edge")
	}
	u := in.st.NewUpdate()
	cur, err := u.Items.Get(to)
	if err != nil {
		return nil, err
	}
	if cur != nil {
		return nil, fault.Failf("%s already lies there", cur.Kind)
	}
	a, err := u.Actor(in.id)
	if err != nil {
		return nil, err
	}
	it, err := a.Inventory.Take(in.act.Slot)
	if err != nil {
		return nil, err
	}
	if err := u.Items.Set(to, it); err != nil {
		return nil, err
	}
	return u, nil
}

func craft(in input) (*world.Update, error) {
	recipe, _, ok := in.st.Defs.Recipes.Lookup(in.act.Recipe)
	if !ok {
		return nil, fault.Failf("no recipe %q", in.act.Recipe)
	}
	u := in.st.NewUpdate()
	a, err := u.Actor(in.id)
	if err != nil {
		return nil, err
	}
	for _, ing := range recipe.Inputs {
		if err := a.Inventory.Consume(ing.Item, ing.Quantity); err != nil {
			return nil, err
		}
	}
	out := &world.Item{Kind: recipe.Output, Quantity: recipe.Quantity}
	if err := a.Inventory.Insert(out, in.st.MaxStack(recipe.Output)); err != nil {
		return nil, err
	}
	u.Score += recipe.Score
	u.Crafted = append(u.Crafted, recipe.ID)
	return u, nil
}

// record starts capturing the player's actions. The snapshot is what a
// clone will carry: the current inventory minus the recorder itself.
func record(in input) (*world.Update, error) {
	if in.id != in.st.Player {
		return nil, fault.Failf("only the player can record")
	}
	if in.st.Recorder != nil {
		return nil, fault.Failf("already recording")
	}
	it, err := in.self.Inventory.Get(in.act.Slot)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fault.Failf("slot %d is empty", in.act.Slot)
	}
	def, err := in.st.ItemDef(it)
	if err != nil {
		return nil, err
	}
	if !def.Recorder {
		return nil, fault.Failf("%s cannot record", def.Name)
	}
	snap := in.self.Inventory.Clone()
	snap.Slots[in.act.Slot] = nil

	u := in.st.NewUpdate()
	u.SetRecorder(&world.Recorder{Slot: in.act.Slot, Facing: in.self.Facing, Inventory: snap})
	return u, nil
}

// endRecording freezes the recorder into the recording store and swaps the
// recorder item for a cloner bound to the new recording.
func endRecording(in input) (*world.Update, error) {
	r := in.st.Recorder
	if r == nil || in.id != in.st.Player {
		return nil, fault.Failf("not recording")
	}
	if len(r.Actions) == 0 {
		return nil, fault.Failf("nothing recorded yet")
	}
	u := in.st.NewUpdate()
	rid, err := u.RegisterRecording(&world.Recording{
		Actions:   append([]world.Action(nil), r.Actions...),
		Loop:      in.act.Loop,
		Facing:    r.Facing,
		Inventory: r.Inventory.Clone(),
	})
	if err != nil {
		return nil, err
	}
	a, err := u.Actor(in.id)
	if err != nil {
		return nil, err
	}
	cloner := &world.Item{Kind: in.st.Rules.ClonerItem, Quantity: 1, Recording: rid, Bound: true}
	if held, _ := a.Inventory.Get(r.Slot); held != nil {
		if def, err := in.st.ItemDef(held); err == nil && def.Recorder {
			if err := a.Inventory.ConsumeSlot(r.Slot); err != nil {
				return nil, err
			}
		}
	}
	if r.Slot < len(a.Inventory.Slots) && a.Inventory.Slots[r.Slot] == nil {
		a.Inventory.Slots[r.Slot] = cloner
	} else if err := a.Inventory.Insert(cloner, 1); err != nil {
		return nil, err
	}
	u.SetRecorder(nil)
	return u, nil
}
