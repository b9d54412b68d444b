package world

import (
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/core/registry"
)

// ActorID is the stable handle into the actor registry.
type ActorID = registry.ID

// NoActor is never a valid ActorID.
const NoActor ActorID = -1

// Actor is owned by the registry; everything else refers to it by ActorID.
type Actor struct {
	Kind       string
	Facing     grid.Direction
	Player     bool
	Recording  RecordingID
	CommandIdx int
	Inventory  Inventory
	Alive      bool
	Exposure   float64
}

// Clone deep-copies the actor including its inventory.
func (a *Actor) Clone() *Actor {
	cp := *a
	cp.Inventory = a.Inventory.Clone()
	return &cp
}
