package system

import (
	"context"
	"time"

	"github.com/google/uuid"
	coresys "github.com/l1jgo/paradox/internal/core/system"
	"github.com/l1jgo/paradox/internal/game"
	"github.com/l1jgo/paradox/internal/persist"
	"go.uber.org/zap"
)

// Ledger stores run summaries. Implemented by *persist.RunRepo.
type Ledger interface {
	SaveRun(ctx context.Context, r persist.Run) error
}

// PersistenceSystem writes one ledger row when the game ends. Phase 3
// (Persist).
type PersistenceSystem struct {
	game    *game.Game
	ledger  Ledger
	log     *zap.Logger
	runID   uuid.UUID
	started time.Time
	saved   bool
	timeout time.Duration
}

func NewPersistenceSystem(g *game.Game, ledger Ledger, log *zap.Logger) *PersistenceSystem {
	return &PersistenceSystem{
		game:    g,
		ledger:  ledger,
		log:     log,
		runID:   uuid.New(),
		started: time.Now(),
		timeout: 5 * time.Second,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

// RunID identifies this session in the ledger.
func (s *PersistenceSystem) RunID() uuid.UUID { return s.runID }

func (s *PersistenceSystem) Update() error {
	if s.saved || !s.game.Over() {
		return nil
	}
	return s.Save()
}

// Save writes the summary now. Later calls do nothing.
func (s *PersistenceSystem) Save() error {
	if s.saved {
		return nil
	}
	s.saved = true
	sum := s.game.Summary()
	run := persist.Run{
		ID:        s.runID,
		Level:     sum.Level,
		Turns:     sum.Turns,
		Score:     sum.Score,
		Clones:    sum.Clones,
		Outcome:   sum.Outcome,
		StartedAt: s.started,
		EndedAt:   time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.ledger.SaveRun(ctx, run); err != nil {
		s.log.Error("save run failed", zap.String("run", s.runID.String()), zap.Error(err))
		return err
	}
	s.log.Info("run saved",
		zap.String("run", s.runID.String()),
		zap.String("outcome", sum.Outcome),
		zap.Int("turns", sum.Turns),
		zap.Int("score", sum.Score),
	)
	return nil
}
