package system

import (
	"context"
	"errors"
	"testing"

	"github.com/l1jgo/paradox/internal/behavior"
	"github.com/l1jgo/paradox/internal/config"
	"github.com/l1jgo/paradox/internal/core/event"
	"github.com/l1jgo/paradox/internal/core/grid"
	coresys "github.com/l1jgo/paradox/internal/core/system"
	"github.com/l1jgo/paradox/internal/data"
	"github.com/l1jgo/paradox/internal/game"
	"github.com/l1jgo/paradox/internal/persist"
	"github.com/l1jgo/paradox/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scripted struct {
	actions []world.Action
}

func (s *scripted) Next() (world.Action, bool, error) {
	if len(s.actions) == 0 {
		return world.Action{}, false, nil
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, true, nil
}

type memLedger struct {
	runs []persist.Run
	err  error
}

func (l *memLedger) SaveRun(_ context.Context, r persist.Run) error {
	l.runs = append(l.runs, r)
	return l.err
}

func newRunner(t *testing.T, actions []world.Action, ledger Ledger) (*coresys.Runner, *game.Game, *event.Bus) {
	t.Helper()
	defs, err := data.Parse([]byte(`
items:
  - id: cloner
    on_use: cloner
tiles:
  - id: floor
actors:
  - id: player
  - id: clone
`))
	require.NoError(t, err)
	lvl, err := defs.ParseLevel([]byte("name: hall\nlegend: {\".\": floor}\nmap: [\"..\"]\n"))
	require.NoError(t, err)
	bound, err := behavior.NewTable(nil).Bind(defs)
	require.NoError(t, err)

	bus := event.NewBus()
	log := zap.NewNop()
	g, err := game.New(config.Defaults(), defs, lvl, bound, bus, log)
	require.NoError(t, err)

	intent := &Intent{}
	r := coresys.NewRunner()
	r.Register(NewPersistenceSystem(g, ledger, log))
	r.Register(NewReportSystem(g, log))
	r.Register(NewEventSystem(bus, log))
	r.Register(NewSimulationSystem(intent, g, log))
	r.Register(NewInputSystem(&scripted{actions: actions}, intent, g, log))
	return r, g, bus
}

func TestRunnerDrivesGameToLedger(t *testing.T) {
	ledger := &memLedger{}
	r, g, bus := newRunner(t, []world.Action{
		world.Move(world.Abs(grid.East)),
		world.Move(world.Abs(grid.East)), // off the grid: rejected, not fatal
		world.Wait(),
	}, ledger)
	var applied int
	event.Subscribe(bus, func(event.ActionApplied) { applied++ })

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Tick())
		assert.False(t, g.Over())
	}
	require.NoError(t, r.Tick())
	assert.True(t, g.Over())
	require.NoError(t, r.Tick())

	require.Len(t, ledger.runs, 1, "saved exactly once")
	run := ledger.runs[0]
	assert.Equal(t, "hall", run.Level)
	assert.Equal(t, 2, run.Turns)
	assert.Equal(t, game.OutcomeFinished, run.Outcome)
	assert.NotEqual(t, run.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, 2, applied)

	at, _ := g.PlayerCoord()
	assert.Equal(t, grid.Coord{X: 1}, at)
}

func TestLedgerErrorStopsTick(t *testing.T) {
	boom := errors.New("db down")
	r, _, _ := newRunner(t, nil, &memLedger{err: boom})
	assert.ErrorIs(t, r.Tick(), boom)
}
