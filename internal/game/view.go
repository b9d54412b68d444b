package game

import (
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/world"
)

// Cell is a snapshot of one coordinate across every layer. Items are
// copies; mutating them does not touch the game.
type Cell struct {
	Actor    *ActorView
	Building string
	Item     *world.Item
	Tile     string
	Paradox  float64
}

type ActorView struct {
	ID     world.ActorID
	Kind   string
	Facing grid.Direction
	Player bool
}

func (g *Game) Width() int  { return g.st.World.Width }
func (g *Game) Height() int { return g.st.World.Height }

// PlayerCoord is where the player stands; ok is false once the player is
// off the grid.
func (g *Game) PlayerCoord() (grid.Coord, bool) {
	return g.st.Locate(g.st.Player)
}

func (g *Game) Cell(c grid.Coord) (Cell, error) {
	w := g.st.World
	var out Cell
	id, a, err := g.st.ActorAt(c)
	if err != nil {
		return Cell{}, err
	}
	if a != nil {
		out.Actor = &ActorView{ID: id, Kind: a.Kind, Facing: a.Facing, Player: a.Player}
	}
	b, err := w.Buildings.Get(c)
	if err != nil {
		return Cell{}, err
	}
	if def := g.st.Defs.Buildings.Get(b); def != nil {
		out.Building = def.ID
	}
	it, err := w.Items.Get(c)
	if err != nil {
		return Cell{}, err
	}
	out.Item = it.Clone()
	t, err := w.Tiles.Get(c)
	if err != nil {
		return Cell{}, err
	}
	if def := g.st.Defs.Tiles.Get(t); def != nil {
		out.Tile = def.ID
	}
	if out.Paradox, err = w.Paradox.Get(c); err != nil {
		return Cell{}, err
	}
	return out, nil
}

// Inventory copies the player's slots.
func (g *Game) Inventory() []*world.Item {
	a, err := g.st.Actors.Get(g.st.Player)
	if err != nil {
		return nil
	}
	return a.Inventory.Clone().Slots
}

func (g *Game) Score() int { return g.st.Score }
func (g *Game) Turn() int  { return g.st.Turn }

// Recording reports whether the player is recording and how many actions
// have been captured so far.
func (g *Game) Recording() (bool, int) {
	if g.st.Recorder == nil {
		return false, 0
	}
	return true, len(g.st.Recorder.Actions)
}

// RecordingActions returns a copy of a stored recording's action log.
func (g *Game) RecordingActions(id world.RecordingID) ([]world.Action, bool, error) {
	rec, err := g.st.Recordings.Get(id)
	if err != nil {
		return nil, false, err
	}
	return append([]world.Action(nil), rec.Actions...), rec.Loop, nil
}

// Pending counts NPCs known to the scheduler.
func (g *Game) Pending() int { return g.sched.Pending() }
