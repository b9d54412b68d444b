package world

import (
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/core/registry"
)

// RecordingID indexes the recording store. Recording 0 is the default
// no-op recording every fresh actor starts with.
type RecordingID = registry.ID

const DefaultRecording RecordingID = 0

// Recording is a frozen action log plus what a clone starts with.
type Recording struct {
	Actions   []Action
	Loop      bool
	Facing    grid.Direction
	Inventory Inventory
}

func (r *Recording) Clone() *Recording {
	cp := *r
	cp.Actions = append([]Action(nil), r.Actions...)
	cp.Inventory = r.Inventory.Clone()
	return &cp
}

func (r *Recording) Len() int { return len(r.Actions) }

// At returns Actions[i mod len]; indexing always wraps. An empty recording
// yields Wait.
func (r *Recording) At(i int) Action {
	n := len(r.Actions)
	if n == 0 {
		return Wait()
	}
	return r.Actions[((i%n)+n)%n]
}

// Finished reports whether a non-looping recording has no command left at i.
func (r *Recording) Finished(i int) bool {
	return !r.Loop && i >= len(r.Actions)
}

// NewRecordings seeds a store holding only the default recording.
func NewRecordings() *registry.Registry[*Recording] {
	recs := registry.New[*Recording]()
	recs.Insert(&Recording{Actions: []Action{Wait()}, Loop: true})
	return recs
}

// Recorder is the in-progress recording while the player records.
type Recorder struct {
	Slot      int
	Facing    grid.Direction
	Inventory Inventory
	Actions   []Action
}

func (r *Recorder) Clone() *Recorder {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Actions = append([]Action(nil), r.Actions...)
	cp.Inventory = r.Inventory.Clone()
	return &cp
}
