// Package behavior binds item and building definitions to the code that
// runs when they are used. Names are resolved once at load time.
package behavior

import (
	"fmt"
	"sort"
	"strings"

	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/data"
	"github.com/l1jgo/paradox/internal/scripting"
	"github.com/l1jgo/paradox/internal/world"
)

// Context describes one use: who acts, from where, at what.
type Context struct {
	Actor  world.ActorID
	At     grid.Coord
	Target grid.Coord
	Slot   int // -1 when interacting with a building
}

// Behavior computes the consequences of a use against read-only state.
// It must never mutate st; everything goes into the returned update.
type Behavior interface {
	Apply(st *world.State, ctx Context) (*world.Update, error)
}

// Func adapts a plain function to Behavior.
type Func func(st *world.State, ctx Context) (*world.Update, error)

func (f Func) Apply(st *world.State, ctx Context) (*world.Update, error) { return f(st, ctx) }

// Scripts runs scripted behaviors. Implemented by *scripting.Engine.
type Scripts interface {
	Has(fn string) bool
	RunBehavior(fn string, ctx scripting.BehaviorContext) ([]scripting.Command, error)
}

// ScriptPrefix marks a behavior name resolved through Scripts.
const ScriptPrefix = "lua:"

// Table maps behavior names to implementations.
type Table struct {
	byName  map[string]Behavior
	scripts Scripts
}

// NewTable returns a table holding the built-in behaviors. scripts may be
// nil when no Lua behaviors are configured.
func NewTable(scripts Scripts) *Table {
	t := &Table{byName: make(map[string]Behavior), scripts: scripts}
	t.Register("cloner", Func(Cloner))
	t.Register("digitizer", Func(Digitizer))
	t.Register("stabilizer", Func(Stabilizer))
	return t
}

// Register binds name to b, replacing any previous binding.
func (t *Table) Register(name string, b Behavior) {
	t.byName[name] = b
}

// Lookup resolves name.
func (t *Table) Lookup(name string) (Behavior, error) {
	if fn, ok := strings.CutPrefix(name, ScriptPrefix); ok {
		if t.scripts == nil || !t.scripts.Has(fn) {
			return nil, fmt.Errorf("no lua behavior %q", fn)
		}
		return &scripted{fn: fn, scripts: t.scripts}, nil
	}
	b, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("no behavior %q", name)
	}
	return b, nil
}

// Bound maps definition owners ("item/<id>", "building/<id>") to their
// resolved behavior.
type Bound map[string]Behavior

func (b Bound) Item(id string) (Behavior, bool) {
	v, ok := b["item/"+id]
	return v, ok
}

func (b Bound) Building(id string) (Behavior, bool) {
	v, ok := b["building/"+id]
	return v, ok
}

// Bind resolves every behavior name the arena references. Any unknown name
// fails the whole bind.
func (t *Table) Bind(a *data.Arena) (Bound, error) {
	refs := a.Behaviors()
	owners := make([]string, 0, len(refs))
	for owner := range refs {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	out := make(Bound, len(refs))
	for _, owner := range owners {
		b, err := t.Lookup(refs[owner])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", owner, err)
		}
		out[owner] = b
	}
	return out, nil
}

// Names lists the registered built-in names.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.byName))
	for n := range t.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
