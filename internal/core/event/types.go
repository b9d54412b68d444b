package event

import (
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/core/registry"
)

type ActorSpawned struct {
	ID        registry.ID
	At        grid.Coord
	Recording registry.ID
}

type ActorPerished struct {
	ID       registry.ID
	At       grid.Coord
	Exposure float64
	Player   bool
}

// ActorDespawned fires when a non-looping recording runs out.
type ActorDespawned struct {
	ID registry.ID
	At grid.Coord
}

type ActionFailed struct {
	ID     registry.ID
	Player bool
	Reason string
}

type ActionApplied struct {
	ID     registry.ID
	Player bool
	Verb   string
}

type RecordingSaved struct {
	ID     registry.ID
	Length int
	Loop   bool
}

type ItemCrafted struct {
	Recipe string
	Score  int
}
