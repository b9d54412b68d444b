package game

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/config"
	"github.com/l1jgo/paradox/internal/core/event"
	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/l1jgo/paradox/internal/paradox"
	"github.com/l1jgo/paradox/internal/world"
	"go.uber.org/zap"
)

// NPCTurns lets every NPC in the current rotation act once. It returns when
// the scheduler reports the rotation exhausted.
func (g *Game) NPCTurns() error {
	if g.fatal != nil {
		return g.fatal
	}
	for {
		id, ok, err := g.sched.Next(g.st.Actors)
		if err != nil {
			return g.fail(err)
		}
		if !ok {
			return nil
		}
		if err := g.npcTurn(id); err != nil {
			return err
		}
	}
}

// npcTurn plays the next command of id's recording. The cursor advances
// whether or not the command succeeds.
func (g *Game) npcTurn(id world.ActorID) error {
	st := g.st
	npc, err := st.Actors.Get(id)
	if err != nil {
		return g.fail(err)
	}
	rec, err := st.Recordings.Get(npc.Recording)
	if err != nil {
		return g.fail(fmt.Errorf("actor %d: %w", id, err))
	}
	if rec.Finished(npc.CommandIdx) && g.playback == config.PlaybackDespawn {
		return g.despawn(id)
	}

	a := rec.At(npc.CommandIdx)
	u, err := g.exec.Execute(st, id, a)
	ok := err == nil
	if !ok {
		if !fault.IsRecoverable(err) {
			return g.fail(fmt.Errorf("actor %d %s: %w", id, a, err))
		}
		g.rejected(id, a, err)
		u = st.NewUpdate()
	}
	staged, err := u.Actor(id)
	if err != nil {
		return g.fail(err)
	}
	staged.CommandIdx++
	if err := g.apply(u, id, a); err != nil {
		return err
	}
	if ok {
		event.Emit(g.bus, event.ActionApplied{ID: id, Verb: a.Verb.String()})
	}
	return nil
}

func (g *Game) despawn(id world.ActorID) error {
	u := g.st.NewUpdate()
	at, _ := g.st.Locate(id)
	if err := u.Kill(id); err != nil {
		return g.fail(err)
	}
	if err := u.Commit(); err != nil {
		return g.fail(fmt.Errorf("despawn actor %d: %w", id, err))
	}
	event.Emit(g.bus, event.ActorDespawned{ID: id, At: at})
	g.log.Debug("recording finished, actor despawned", zap.Int("actor", int(id)))
	return nil
}

// Environment diffuses the paradox field and exposes every actor on the
// grid to it. Actors that reach their threshold die; the game ends when
// the player does.
func (g *Game) Environment() error {
	if g.fatal != nil {
		return g.fatal
	}
	st := g.st
	u, err := paradox.Diffuse(st)
	if err != nil {
		return g.fail(err)
	}
	var dead []event.ActorPerished
	for _, id := range st.World.Actors.IDs() {
		survived, err := paradox.Expose(st, u, id)
		if err != nil {
			return g.fail(err)
		}
		if survived {
			continue
		}
		at, _ := st.Locate(id)
		a, err := u.ViewActor(id)
		if err != nil {
			return g.fail(err)
		}
		dead = append(dead, event.ActorPerished{ID: id, At: at, Exposure: a.Exposure, Player: a.Player})
		if err := u.Kill(id); err != nil {
			return g.fail(err)
		}
	}
	if err := u.Commit(); err != nil {
		return g.fail(fmt.Errorf("environment: %w", err))
	}
	for _, ev := range dead {
		event.Emit(g.bus, ev)
		g.log.Info("actor perished",
			zap.Int("actor", int(ev.ID)),
			zap.Stringer("at", ev.At),
			zap.Float64("exposure", ev.Exposure),
		)
		if ev.Player && g.outcome == OutcomePlaying {
			g.outcome = OutcomePerished
		}
	}
	return nil
}
