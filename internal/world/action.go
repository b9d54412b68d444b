package world

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/core/grid"
)

// DirKind says how a Dir picks its heading.
type DirKind int

const (
	DirHere DirKind = iota
	DirAbsolute
	DirRelative
)

// Relative headings, as clockwise quarter turns from facing.
type Relative int

const (
	Forward Relative = iota
	Right
	Back
	Left
)

var relNames = [...]string{"forward", "right", "back", "left"}

func (r Relative) String() string {
	if r < Forward || r > Left {
		return fmt.Sprintf("relative(%d)", int(r))
	}
	return relNames[r]
}

// ParseRelative maps a lowercase name to a Relative.
func ParseRelative(s string) (Relative, bool) {
	for i, n := range relNames {
		if n == s {
			return Relative(i), true
		}
	}
	return Forward, false
}

// Dir is the direction half of an Action.
type Dir struct {
	Kind DirKind
	Abs  grid.Direction
	Rel  Relative
}

// Here targets the acting cell itself.
var Here = Dir{}

func Abs(d grid.Direction) Dir { return Dir{Kind: DirAbsolute, Abs: d} }
func Rel(r Relative) Dir       { return Dir{Kind: DirRelative, Rel: r} }

// Resolve turns the Dir into a heading given the actor's facing. ok is false
// for Here.
func (d Dir) Resolve(facing grid.Direction) (grid.Direction, bool) {
	switch d.Kind {
	case DirAbsolute:
		return d.Abs, true
	case DirRelative:
		return facing.Turn(int(d.Rel)), true
	}
	return facing, false
}

// Target is the cell the Dir points at from at.
func (d Dir) Target(at grid.Coord, facing grid.Direction) grid.Coord {
	h, ok := d.Resolve(facing)
	if !ok {
		return at
	}
	return at.Add(h.Offset())
}

func (d Dir) String() string {
	switch d.Kind {
	case DirAbsolute:
		return d.Abs.String()
	case DirRelative:
		return d.Rel.String()
	}
	return "here"
}

type Verb int

const (
	VerbWait Verb = iota
	VerbMove
	VerbTake
	VerbDrop
	VerbUse
	VerbInteract
	VerbCraft
	VerbRecord
	VerbEndRecording
)

var verbNames = [...]string{"wait", "move", "take", "drop", "use", "interact", "craft", "record", "end"}

func (v Verb) String() string {
	if v < VerbWait || v > VerbEndRecording {
		return fmt.Sprintf("verb(%d)", int(v))
	}
	return verbNames[v]
}

// Action is a direction plus a verb with the verb's argument.
type Action struct {
	Dir    Dir
	Verb   Verb
	Slot   int
	Recipe string
	Loop   bool
}

func Wait() Action                  { return Action{Verb: VerbWait} }
func Move(d Dir) Action             { return Action{Dir: d, Verb: VerbMove} }
func Take(d Dir) Action             { return Action{Dir: d, Verb: VerbTake} }
func Drop(slot int, d Dir) Action   { return Action{Dir: d, Verb: VerbDrop, Slot: slot} }
func Use(slot int, d Dir) Action    { return Action{Dir: d, Verb: VerbUse, Slot: slot} }
func Interact(d Dir) Action         { return Action{Dir: d, Verb: VerbInteract} }
func Craft(recipe string) Action    { return Action{Verb: VerbCraft, Recipe: recipe} }
func Record(slot int) Action        { return Action{Verb: VerbRecord, Slot: slot} }
func EndRecording(loop bool) Action { return Action{Verb: VerbEndRecording, Loop: loop} }

// Recordable reports whether a successful action of this verb is appended
// to an active recording.
func (a Action) Recordable() bool {
	return a.Verb != VerbRecord && a.Verb != VerbEndRecording
}

func (a Action) String() string {
	switch a.Verb {
	case VerbWait:
		return "wait"
	case VerbDrop, VerbUse:
		return fmt.Sprintf("%s %d %s", a.Verb, a.Slot, a.Dir)
	case VerbCraft:
		return "craft " + a.Recipe
	case VerbRecord:
		return fmt.Sprintf("record %d", a.Slot)
	case VerbEndRecording:
		if a.Loop {
			return "end loop"
		}
		return "end once"
	}
	return fmt.Sprintf("%s %s", a.Verb, a.Dir)
}
