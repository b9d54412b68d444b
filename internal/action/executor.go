// Package action turns an Action into a staged world.Update. Every function
// here reads the state and never writes it.
package action

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/behavior"
	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/world"
)

// Executor dispatches actions. Behaviors are resolved once, at construction.
type Executor struct {
	bound behavior.Bound
}

func NewExecutor(bound behavior.Bound) *Executor {
	return &Executor{bound: bound}
}

// Execute computes what actor id doing a would change. A recoverable
// failure comes back as a *fault.ActionFailure; anything else is fatal.
func (e *Executor) Execute(st *world.State, id world.ActorID, a world.Action) (*world.Update, error) {
	self, err := st.Actors.Get(id)
	if err != nil {
		return nil, err
	}
	at, ok := st.Locate(id)
	if !ok {
		return nil, fmt.Errorf("actor %d is not on the grid", id)
	}
	in := input{st: st, id: id, self: self, at: at, act: a}

	switch a.Verb {
	case world.VerbWait:
		return st.NewUpdate(), nil
	case world.VerbMove:
		return move(in)
	case world.VerbTake:
		return take(in)
	case world.VerbDrop:
		return drop(in)
	case world.VerbUse:
		return e.use(in)
	case world.VerbInteract:
		return e.interact(in)
	case world.VerbCraft:
		return craft(in)
	case world.VerbRecord:
		return record(in)
	case world.VerbEndRecording:
		return endRecording(in)
	}
	return nil, fmt.Errorf("unknown verb %v", a.Verb)
}

type input struct {
	st   *world.State
	id   world.ActorID
	self *world.Actor
	at   grid.Coord
	act  world.Action
}

func (in input) target() grid.Coord {
	return in.act.Dir.Target(in.at, in.self.Facing)
}

func (e *Executor) use(in input) (*world.Update, error) {
	it, err := in.self.Inventory.Get(in.act.Slot)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fault.Failf("slot %d is empty", in.act.Slot)
	}
	b, ok := e.bound.Item(it.Kind)
	if !ok {
		return nil, fault.Failf("%s cannot be used", it.Kind)
	}
	return b.Apply(in.st, behavior.Context{Actor: in.id, At: in.at, Target: in.target(), Slot: in.act.Slot})
}

func (e *Executor) interact(in input) (*world.Update, error) {
	to := in.target()
	if !in.st.World.InBounds(to) {
		return nil, fault.Failf("nothing to interact with")
	}
	ref, err := in.st.World.Buildings.Get(to)
	if err != nil {
		return nil, err
	}
	def := in.st.Defs.Buildings.Get(ref)
	if def == nil {
		return nil, fault.Failf("nothing to interact with")
	}
	b, ok := e.bound.Building(def.ID)
	if !ok {
		return nil, fault.Failf("%s does nothing", def.Name)
	}
	return b.Apply(in.st, behavior.Context{Actor: in.id, At: in.at, Target: to, Slot: -1})
}
