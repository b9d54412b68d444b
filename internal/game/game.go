// Package game owns the authoritative state and advances it one step at a
// time: the player's action, then every NPC's recorded action, then the
// environment.
package game

import (
	"errors"
	"fmt"

	"github.com/l1jgo/paradox/internal/action"
	"github.com/l1jgo/paradox/internal/behavior"
	"github.com/l1jgo/paradox/internal/config"
	"github.com/l1jgo/paradox/internal/core/event"
	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/data"
	"github.com/l1jgo/paradox/internal/world"
	"go.uber.org/zap"
)

// ErrOver is returned by PlayerAction once the game has ended normally.
var ErrOver = errors.New("game over")

// Outcomes recorded in the run summary.
const (
	OutcomePlaying   = "playing"
	OutcomePerished  = "perished"
	OutcomeOutOfTime = "out_of_turns"
	OutcomeFinished  = "finished"
	OutcomeFatal     = "fatal"
)

type Game struct {
	st    *world.State
	exec  *action.Executor
	sched *Scheduler
	bus   *event.Bus
	log   *zap.Logger

	level    string
	playback string
	maxTurns int

	outcome string
	fatal   error
	clones  int
}

// New builds the world described by lvl and places the player.
func New(cfg *config.Config, defs *data.Arena, lvl *data.Level, bound behavior.Bound, bus *event.Bus, log *zap.Logger) (*Game, error) {
	rules := world.Rules{
		InventorySize:     cfg.Game.InventorySize,
		CloneKind:         cfg.Game.CloneKind,
		ClonerItem:        cfg.Game.ClonerItem,
		SpawnEmission:     cfg.Paradox.SpawnEmission,
		DigitizerEmission: cfg.Paradox.DigitizerEmission,
		StabilizerRadius:  cfg.Paradox.StabilizerRadius,
	}
	if _, _, ok := defs.Items.Lookup(rules.ClonerItem); !ok {
		return nil, fmt.Errorf("cloner item %q is not defined", rules.ClonerItem)
	}

	w, err := buildWorld(defs, lvl)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", lvl.Name, err)
	}
	st := world.NewState(w, defs, rules)

	facing, ok := grid.ParseDirection(lvl.Player.Facing)
	if !ok {
		return nil, fmt.Errorf("level %s: bad player facing %q", lvl.Name, lvl.Player.Facing)
	}
	player := &world.Actor{
		Kind:      cfg.Game.PlayerKind,
		Facing:    facing,
		Player:    true,
		Recording: world.DefaultRecording,
		Inventory: world.NewInventory(rules.InventorySize),
		Alive:     true,
	}
	for _, stack := range lvl.Inventory {
		def := defs.Items.Get(stack.Item)
		it := &world.Item{Kind: def.ID, Quantity: stack.Quantity}
		if err := player.Inventory.Insert(it, def.MaxStack); err != nil {
			return nil, fmt.Errorf("level %s: starting inventory: %w", lvl.Name, err)
		}
	}
	u := st.NewUpdate()
	id, err := u.Spawn(player, grid.Coord{X: lvl.Player.X, Y: lvl.Player.Y})
	if err != nil {
		return nil, fmt.Errorf("place player: %w", err)
	}
	if err := u.Commit(); err != nil {
		return nil, fmt.Errorf("place player: %w", err)
	}
	st.Player = id

	log.Info("game ready",
		zap.String("level", lvl.Name),
		zap.Int("width", w.Width),
		zap.Int("height", w.Height),
		zap.String("playback", cfg.Game.PlaybackPolicy),
	)
	return &Game{
		st:       st,
		exec:     action.NewExecutor(bound),
		sched:    NewScheduler(),
		bus:      bus,
		log:      log,
		level:    lvl.Name,
		playback: cfg.Game.PlaybackPolicy,
		maxTurns: cfg.Game.MaxTurns,
		outcome:  OutcomePlaying,
	}, nil
}

func buildWorld(defs *data.Arena, lvl *data.Level) (*world.World, error) {
	w := world.NewWorld(lvl.Width, lvl.Height)
	for i, ref := range lvl.Tiles {
		c := grid.Coord{X: i % lvl.Width, Y: i / lvl.Width}
		if err := w.Tiles.Set(c, ref); err != nil {
			return nil, err
		}
	}
	for _, b := range lvl.Buildings {
		if err := w.Buildings.Set(grid.Coord{X: b.X, Y: b.Y}, b.Ref); err != nil {
			return nil, err
		}
	}
	for _, s := range lvl.Items {
		def := defs.Items.Get(s.Item)
		if err := w.Items.Set(grid.Coord{X: s.X, Y: s.Y}, &world.Item{Kind: def.ID, Quantity: s.Quantity}); err != nil {
			return nil, err
		}
	}
	for _, p := range lvl.Paradox {
		if err := w.Paradox.Set(grid.Coord{X: p.X, Y: p.Y}, max(p.Value, 0)); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// PlayerAction runs one full step: the player's action, NPC turns and the
// environment. A recoverable failure is returned as-is and the step is a
// no-op. Any other error is fatal and returned by every later call.
func (g *Game) PlayerAction(a world.Action) error {
	if g.fatal != nil {
		return g.fatal
	}
	if g.Over() {
		return ErrOver
	}
	if err := g.playerTurn(a); err != nil {
		return err
	}
	if err := g.NPCTurns(); err != nil {
		return err
	}
	if err := g.Environment(); err != nil {
		return err
	}
	st := g.st
	st.Turn++
	if g.outcome == OutcomePlaying && g.maxTurns > 0 && st.Turn >= g.maxTurns {
		g.outcome = OutcomeOutOfTime
		g.log.Info("turn limit reached", zap.Int("turns", st.Turn))
	}
	return nil
}

// playerTurn executes and commits the player's action, appending it to an
// active recording.
func (g *Game) playerTurn(a world.Action) error {
	st := g.st
	u, err := g.exec.Execute(st, st.Player, a)
	if err != nil {
		if !fault.IsRecoverable(err) {
			return g.fail(fmt.Errorf("player %s: %w", a, err))
		}
		g.rejected(st.Player, a, err)
		return err
	}
	// Record and end set the recorder themselves and are never captured.
	if _, changed := u.RecorderChanged(); st.Recorder != nil && !changed && a.Recordable() {
		rec := st.Recorder.Clone()
		rec.Actions = append(rec.Actions, a)
		u.SetRecorder(rec)
	}
	if err := g.apply(u, st.Player, a); err != nil {
		return err
	}
	event.Emit(g.bus, event.ActionApplied{ID: st.Player, Player: true, Verb: a.Verb.String()})
	return nil
}

// rejected publishes a recoverable failure. The caller discards the update.
func (g *Game) rejected(id world.ActorID, a world.Action, err error) {
	player := id == g.st.Player
	event.Emit(g.bus, event.ActionFailed{ID: id, Player: player, Reason: err.Error()})
	g.log.Debug("action failed",
		zap.Int("actor", int(id)),
		zap.Bool("player", player),
		zap.String("action", a.String()),
		zap.Error(err),
	)
}

func (g *Game) fail(err error) error {
	g.fatal = err
	g.outcome = OutcomeFatal
	g.log.Error("fatal error, stopping game", zap.Error(err))
	return err
}

// apply commits u and publishes what it did. New NPCs join the scheduler.
func (g *Game) apply(u *world.Update, id world.ActorID, a world.Action) error {
	spawned := u.Registry.Added()
	recorded := u.Recordings.Added()
	if err := u.Commit(); err != nil {
		return g.fail(fmt.Errorf("commit %s by actor %d: %w", a, id, err))
	}
	st := g.st
	for _, nid := range spawned {
		npc, err := st.Actors.Get(nid)
		if err != nil {
			return g.fail(err)
		}
		if npc.Player {
			continue
		}
		g.sched.Enqueue(nid)
		g.clones++
		at, _ := st.Locate(nid)
		event.Emit(g.bus, event.ActorSpawned{ID: nid, At: at, Recording: npc.Recording})
	}
	for _, rid := range recorded {
		rec, err := st.Recordings.Get(rid)
		if err != nil {
			return g.fail(err)
		}
		event.Emit(g.bus, event.RecordingSaved{ID: rid, Length: rec.Len(), Loop: rec.Loop})
	}
	for _, name := range u.Crafted {
		score := 0
		if def, _, ok := st.Defs.Recipes.Lookup(name); ok {
			score = def.Score
		}
		event.Emit(g.bus, event.ItemCrafted{Recipe: name, Score: score})
	}
	for _, n := range u.Notices {
		g.log.Info("notice", zap.Int("actor", int(id)), zap.String("text", n))
	}
	return nil
}

// Over reports whether the game has stopped accepting actions.
func (g *Game) Over() bool { return g.outcome != OutcomePlaying }

// Err is the latched fatal error, if any.
func (g *Game) Err() error { return g.fatal }

// Finish ends a game that is still running, e.g. when input runs out.
func (g *Game) Finish() {
	if g.outcome == OutcomePlaying {
		g.outcome = OutcomeFinished
	}
}

// Summary describes the run so far.
type Summary struct {
	Level   string
	Turns   int
	Score   int
	Clones  int
	Outcome string
}

func (g *Game) Summary() Summary {
	return Summary{
		Level:   g.level,
		Turns:   g.st.Turn,
		Score:   g.st.Score,
		Clones:  g.clones,
		Outcome: g.outcome,
	}
}
