package game

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/core/registry"
	"github.com/l1jgo/paradox/internal/world"
)

// Scheduler picks which NPC acts next. It keeps two FIFO queues: the
// current rotation and the one being built for the next step.
type Scheduler struct {
	thisTurn []world.ActorID
	nextTurn []world.ActorID
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Enqueue puts a newly created NPC at the front of the current rotation so
// it acts before everyone still waiting.
func (s *Scheduler) Enqueue(id world.ActorID) {
	s.thisTurn = append([]world.ActorID{id}, s.thisTurn...)
}

// Next pops the current rotation until it finds a live NPC, which is also
// queued for the next rotation. Dead and player ids are dropped for good.
// An exhausted rotation swaps in the next one and reports ok=false; call
// again to start the new rotation.
func (s *Scheduler) Next(actors *registry.Registry[*world.Actor]) (id world.ActorID, ok bool, err error) {
	for len(s.thisTurn) > 0 {
		id = s.thisTurn[0]
		s.thisTurn = s.thisTurn[1:]
		a, err := actors.Get(id)
		if err != nil {
			return world.NoActor, false, fmt.Errorf("scheduled actor: %w", err)
		}
		if !a.Alive || a.Player {
			continue
		}
		s.nextTurn = append(s.nextTurn, id)
		return id, true, nil
	}
	s.thisTurn, s.nextTurn = s.nextTurn, s.thisTurn[:0]
	return world.NoActor, false, nil
}

// Pending counts ids waiting in either queue.
func (s *Scheduler) Pending() int { return len(s.thisTurn) + len(s.nextTurn) }

// queued snapshots both queues.
func (s *Scheduler) queued() (this, next []world.ActorID) {
	return append([]world.ActorID(nil), s.thisTurn...), append([]world.ActorID(nil), s.nextTurn...)
}
