package world

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/core/registry"
	"github.com/l1jgo/paradox/internal/core/track"
	"github.com/l1jgo/paradox/internal/data"
)

// Update is the aggregate staged change set of one action attempt: one
// staged layer per World layer plus the registry and recording updates.
// It is discarded on failure and committed at most once.
type Update struct {
	state *State

	Actors     *track.Staged[ActorID]
	Buildings  *grid.Staged[data.Ref]
	Items      *grid.Staged[*Item]
	Tiles      *grid.Staged[data.Ref]
	Paradox    *grid.Staged[float64]
	Registry   *registry.Update[*Actor]
	Recordings *registry.Update[*Recording]

	recorderSet bool
	recorder    *Recorder

	Score   int
	Crafted []string
	Notices []string
}

// NewUpdate opens a fresh update bound to the current state.
func (s *State) NewUpdate() *Update {
	w := s.World
	return &Update{
		state:      s,
		Actors:     track.Stage(w.Actors),
		Buildings:  grid.Stage(w.Buildings),
		Items:      grid.Stage(w.Items),
		Tiles:      grid.Stage(w.Tiles),
		Paradox:    grid.Stage(w.Paradox),
		Registry:   s.Actors.NewUpdate(),
		Recordings: s.Recordings.NewUpdate(),
	}
}

// State is the read-only state this update was opened against.
func (u *Update) State() *State { return u.state }

// Actor returns a mutable staged copy of id.
func (u *Update) Actor(id ActorID) (*Actor, error) {
	return u.state.Actors.Read(u.Registry, id)
}

// ViewActor returns id as it will be after this update. Do not mutate.
func (u *Update) ViewActor(id ActorID) (*Actor, error) {
	return u.state.Actors.View(u.Registry, id)
}

// Locate resolves id's cell through the staged actor layer.
func (u *Update) Locate(id ActorID) (grid.Coord, bool, error) {
	return u.Actors.Locate(id)
}

// Spawn stages a new actor standing at at.
func (u *Update) Spawn(a *Actor, at grid.Coord) (ActorID, error) {
	if _, occupied, err := u.Actors.Get(at); err != nil {
		return NoActor, err
	} else if occupied {
		return NoActor, fault.Failf("cell %v is occupied", at)
	}
	id, err := u.state.Actors.Register(u.Registry, a)
	if err != nil {
		return NoActor, err
	}
	if err := u.Actors.Set(at, id); err != nil {
		return NoActor, err
	}
	return id, nil
}

// Kill stages id as dead and clears its cell.
func (u *Update) Kill(id ActorID) error {
	a, err := u.Actor(id)
	if err != nil {
		return err
	}
	a.Alive = false
	return u.Actors.Remove(id)
}

// AddParadox stages field[c] += delta, floored at zero.
func (u *Update) AddParadox(c grid.Coord, delta float64) error {
	v, err := u.Paradox.Get(c)
	if err != nil {
		return err
	}
	return u.Paradox.Set(c, max(v+delta, 0))
}

// RegisterRecording stages rec into the recording store.
func (u *Update) RegisterRecording(rec *Recording) (RecordingID, error) {
	return u.state.Recordings.Register(u.Recordings, rec)
}

// SetRecorder stages the recorder state; nil stops recording.
func (u *Update) SetRecorder(r *Recorder) {
	u.recorderSet = true
	u.recorder = r
}

// RecorderChanged reports whether this update starts or stops a recording.
func (u *Update) RecorderChanged() (*Recorder, bool) {
	return u.recorder, u.recorderSet
}

func (u *Update) Notice(format string, args ...any) {
	u.Notices = append(u.Notices, fmt.Sprintf(format, args...))
}

// Validate checks every component against the live state without
// writing anything.
func (u *Update) Validate() error {
	s := u.state
	w := s.World
	checks := []struct {
		name string
		err  error
	}{
		{"tiles", u.Tiles.Validate(w.Tiles)},
		{"buildings", u.Buildings.Validate(w.Buildings)},
		{"items", u.Items.Validate(w.Items)},
		{"paradox", u.Paradox.Validate(w.Paradox)},
		{"actors", u.Actors.Validate(w.Actors)},
		{"registry", s.Actors.Validate(u.Registry)},
		{"recordings", s.Recordings.Validate(u.Recordings)},
	}
	for _, c := range checks {
		if c.err != nil {
			return fmt.Errorf("validate %s: %w", c.name, c.err)
		}
	}
	known := s.Actors.Len() + len(u.Registry.Added())
	if int(u.Actors.NextID()) > known {
		return fault.StateUpdatef("actors", "grid references actor id %d but only %d actors exist", u.Actors.NextID()-1, known)
	}
	return nil
}

// Commit validates the whole update and then applies every component in a
// fixed order. A validation failure leaves the state untouched.
func (u *Update) Commit() error {
	if err := u.Validate(); err != nil {
		return err
	}
	s := u.state
	w := s.World
	steps := []struct {
		name  string
		apply func() error
	}{
		{"tiles", func() error { return u.Tiles.Apply(w.Tiles) }},
		{"buildings", func() error { return u.Buildings.Apply(w.Buildings) }},
		{"items", func() error { return u.Items.Apply(w.Items) }},
		{"paradox", func() error { return u.Paradox.Apply(w.Paradox) }},
		{"actors", func() error { return u.Actors.Apply(w.Actors) }},
		{"registry", func() error { return s.Actors.Apply(u.Registry) }},
		{"recordings", func() error { return s.Recordings.Apply(u.Recordings) }},
	}
	for _, st := range steps {
		if err := st.apply(); err != nil {
			// Unreachable after Validate; reported loudly if it ever happens.
			return fault.StateUpdatef(st.name, "commit after validation: %v", err)
		}
	}
	if u.recorderSet {
		s.Recorder = u.recorder
	}
	s.Score += u.Score
	return nil
}
