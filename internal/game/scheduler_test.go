package game

import (
	"testing"

	"github.com/l1jgo/paradox/internal/core/registry"
	"github.com/l1jgo/paradox/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actors(specs ...world.Actor) *registry.Registry[*world.Actor] {
	r := registry.New[*world.Actor]()
	for i := range specs {
		a := specs[i]
		r.Insert(&a)
	}
	return r
}

func drain(t *testing.T, s *Scheduler, r *registry.Registry[*world.Actor]) []world.ActorID {
	t.Helper()
	var out []world.ActorID
	for {
		id, ok, err := s.Next(r)
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, id)
	}
}

func TestSchedulerRotation(t *testing.T) {
	r := actors(world.Actor{Alive: true}, world.Actor{Alive: true}, world.Actor{Alive: true})
	s := NewScheduler()
	s.Enqueue(0)
	s.Enqueue(1)
	s.Enqueue(2)

	assert.Equal(t, []world.ActorID{2, 1, 0}, drain(t, s, r), "new entrants go first")
	this, next := s.queued()
	assert.Equal(t, []world.ActorID{2, 1, 0}, this, "swap makes next rotation current")
	assert.Empty(t, next)
	assert.Equal(t, []world.ActorID{2, 1, 0}, drain(t, s, r))
}

func TestSchedulerNewEntrantMidRotation(t *testing.T) {
	r := actors(world.Actor{Alive: true}, world.Actor{Alive: true}, world.Actor{Alive: true})
	s := NewScheduler()
	s.Enqueue(1)
	s.Enqueue(0)

	id, ok, err := s.Next(r)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, world.ActorID(0), id)

	s.Enqueue(2)
	assert.Equal(t, []world.ActorID{2, 1}, drain(t, s, r))
	assert.Equal(t, []world.ActorID{0, 2, 1}, drain(t, s, r))
}

func TestSchedulerDropsDeadAndPlayer(t *testing.T) {
	r := actors(world.Actor{Alive: true, Player: true}, world.Actor{Alive: true}, world.Actor{Alive: true})
	s := NewScheduler()
	s.Enqueue(2)
	s.Enqueue(1)
	s.Enqueue(0)

	assert.Equal(t, []world.ActorID{1, 2}, drain(t, s, r))

	dead, _ := r.Get(1)
	dead.Alive = false
	assert.Equal(t, []world.ActorID{2}, drain(t, s, r))

	this, next := s.queued()
	assert.NotContains(t, this, world.ActorID(1))
	assert.NotContains(t, next, world.ActorID(1))
	assert.NotContains(t, this, world.ActorID(0))
	assert.Equal(t, 1, s.Pending())
}

func TestSchedulerEmpty(t *testing.T) {
	s := NewScheduler()
	_, ok, err := s.Next(actors())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSchedulerUnknownIDIsFatal(t *testing.T) {
	s := NewScheduler()
	s.Enqueue(5)
	_, _, err := s.Next(actors())
	assert.Error(t, err)
}
