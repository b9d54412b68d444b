package world

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/core/registry"
	"github.com/l1jgo/paradox/internal/core/track"
	"github.com/l1jgo/paradox/internal/data"
)

// World holds one layer per spatial attribute, all sharing one coordinate
// space.
type World struct {
	Width     int
	Height    int
	Actors    *track.Layer[ActorID]
	Buildings *grid.Layer[data.Ref]
	Items     *grid.Layer[*Item]
	Tiles     *grid.Layer[data.Ref]
	Paradox   *grid.Layer[float64]
}

func NewWorld(width, height int) *World {
	return &World{
		Width:     width,
		Height:    height,
		Actors:    track.New[ActorID](width, height),
		Buildings: grid.NewLayer[data.Ref](width, height, 0),
		Items:     grid.NewLayer[*Item](width, height, nil),
		Tiles:     grid.NewLayer[data.Ref](width, height, 0),
		Paradox:   grid.NewLayer(width, height, 0.0),
	}
}

func (w *World) InBounds(c grid.Coord) bool { return w.Tiles.InBounds(c) }

// Rules are the tunables action logic reads.
type Rules struct {
	InventorySize     int
	CloneKind         string
	ClonerItem        string
	SpawnEmission     float64
	DigitizerEmission float64
	StabilizerRadius  int
}

// State is everything an action may read. Action code treats it as
// read-only and describes changes through an Update.
type State struct {
	World      *World
	Actors     *registry.Registry[*Actor]
	Recordings *registry.Registry[*Recording]
	Defs       *data.Arena
	Rules      Rules

	Player   ActorID
	Recorder *Recorder
	Score    int
	Turn     int
}

// Locate returns where a live actor stands.
func (s *State) Locate(id ActorID) (grid.Coord, bool) {
	return s.World.Actors.Locate(id)
}

// ActorAt returns the actor occupying c, if any.
func (s *State) ActorAt(c grid.Coord) (ActorID, *Actor, error) {
	id, ok, err := s.World.Actors.Get(c)
	if err != nil || !ok {
		return NoActor, nil, err
	}
	a, err := s.Actors.Get(id)
	if err != nil {
		return NoActor, nil, fmt.Errorf("cell %v: %w", c, err)
	}
	return id, a, nil
}

// ItemDef resolves the definition behind an item.
func (s *State) ItemDef(it *Item) (*data.ItemDef, error) {
	def, _, ok := s.Defs.Items.Lookup(it.Kind)
	if !ok {
		return nil, fmt.Errorf("no definition for item %q", it.Kind)
	}
	return def, nil
}

// MaxStack is the stack limit for kind, 1 when unknown.
func (s *State) MaxStack(kind string) int {
	if def, _, ok := s.Defs.Items.Lookup(kind); ok {
		return def.MaxStack
	}
	return 1
}

// NewState returns an empty state over w with no player yet.
func NewState(w *World, defs *data.Arena, rules Rules) *State {
	return &State{
		World:      w,
		Actors:     registry.New[*Actor](),
		Recordings: NewRecordings(),
		Defs:       defs,
		Rules:      rules,
		Player:     NoActor,
	}
}
