package system

import (
	"github.com/l1jgo/paradox/internal/core/event"
	coresys "github.com/l1jgo/paradox/internal/core/system"
	"go.uber.org/zap"
)

// EventSystem delivers the step's events. Phase 2 (Events).
type EventSystem struct {
	bus *event.Bus
}

// NewEventSystem also subscribes the log handlers.
func NewEventSystem(bus *event.Bus, log *zap.Logger) *EventSystem {
	event.Subscribe(bus, func(e event.ActorSpawned) {
		log.Info("clone spawned", zap.Int("actor", int(e.ID)), zap.Stringer("at", e.At), zap.Int("recording", int(e.Recording)))
	})
	event.Subscribe(bus, func(e event.ActorDespawned) {
		log.Info("clone faded", zap.Int("actor", int(e.ID)), zap.Stringer("at", e.At))
	})
	event.Subscribe(bus, func(e event.RecordingSaved) {
		log.Info("recording saved", zap.Int("recording", int(e.ID)), zap.Int("length", e.Length), zap.Bool("loop", e.Loop))
	})
	event.Subscribe(bus, func(e event.ItemCrafted) {
		log.Info("crafted", zap.String("recipe", e.Recipe), zap.Int("score", e.Score))
	})
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update() error {
	s.bus.Flush()
	return nil
}
