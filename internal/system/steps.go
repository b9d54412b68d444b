package system

import (
	"errors"

	"github.com/l1jgo/paradox/internal/core/fault"
	coresys "github.com/l1jgo/paradox/internal/core/system"
	"github.com/l1jgo/paradox/internal/game"
	"github.com/l1jgo/paradox/internal/world"
	"go.uber.org/zap"
)

// Source yields player actions. ok is false once input is exhausted.
type Source interface {
	Next() (a world.Action, ok bool, err error)
}

// Intent carries the player's action from the input phase to the update
// phase of the same step.
type Intent struct {
	Action world.Action
	Ready  bool
}

// InputSystem pulls the next player action. Phase 0 (Input).
type InputSystem struct {
	src    Source
	intent *Intent
	game   *game.Game
	log    *zap.Logger
}

func NewInputSystem(src Source, intent *Intent, g *game.Game, log *zap.Logger) *InputSystem {
	return &InputSystem{src: src, intent: intent, game: g, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update() error {
	s.intent.Ready = false
	if s.game.Over() {
		return nil
	}
	a, ok, err := s.src.Next()
	if err != nil {
		return err
	}
	if !ok {
		s.log.Info("input exhausted")
		s.game.Finish()
		return nil
	}
	s.intent.Action = a
	s.intent.Ready = true
	return nil
}

// SimulationSystem advances the game by one step. Phase 1 (Update).
type SimulationSystem struct {
	intent *Intent
	game   *game.Game
	log    *zap.Logger
}

func NewSimulationSystem(intent *Intent, g *game.Game, log *zap.Logger) *SimulationSystem {
	return &SimulationSystem{intent: intent, game: g, log: log}
}

func (s *SimulationSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SimulationSystem) Update() error {
	if !s.intent.Ready {
		return nil
	}
	err := s.game.PlayerAction(s.intent.Action)
	switch {
	case err == nil, errors.Is(err, game.ErrOver):
		return nil
	case fault.IsRecoverable(err):
		s.log.Info("action rejected", zap.String("action", s.intent.Action.String()), zap.Error(err))
		return nil
	}
	return err
}

// ReportSystem logs a one-line status after every step. Phase 4 (Cleanup).
type ReportSystem struct {
	game *game.Game
	log  *zap.Logger
}

func NewReportSystem(g *game.Game, log *zap.Logger) *ReportSystem {
	return &ReportSystem{game: g, log: log}
}

func (s *ReportSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *ReportSystem) Update() error {
	at, onGrid := s.game.PlayerCoord()
	recording, captured := s.game.Recording()
	s.log.Debug("step",
		zap.Int("turn", s.game.Turn()),
		zap.Int("score", s.game.Score()),
		zap.Stringer("player", at),
		zap.Bool("on_grid", onGrid),
		zap.Bool("recording", recording),
		zap.Int("captured", captured),
		zap.Int("npcs", s.game.Pending()),
	)
	return nil
}
