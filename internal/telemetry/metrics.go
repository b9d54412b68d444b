// Package telemetry turns game events into prometheus metrics.
package telemetry

import (
	"strconv"

	"github.com/l1jgo/paradox/internal/core/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Actions         *prometheus.CounterVec
	Spawned         prometheus.Counter
	Despawned       prometheus.Counter
	Perished        *prometheus.CounterVec
	Recordings      prometheus.Counter
	RecordingLength prometheus.Histogram
	Crafted         *prometheus.CounterVec
	Score           prometheus.Counter
}

// New registers every metric on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "paradox_actions_total",
			Help: "Actions attempted, by actor class and result",
		}, []string{"actor", "result"}),
		Spawned: f.NewCounter(prometheus.CounterOpts{
			Name: "paradox_clones_spawned_total",
			Help: "Clones spawned from cloner items",
		}),
		Despawned: f.NewCounter(prometheus.CounterOpts{
			Name: "paradox_clones_despawned_total",
			Help: "Clones removed after a non-looping recording ran out",
		}),
		Perished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "paradox_actors_perished_total",
			Help: "Actors killed by paradox exposure",
		}, []string{"player"}),
		Recordings: f.NewCounter(prometheus.CounterOpts{
			Name: "paradox_recordings_saved_total",
			Help: "Recordings frozen into cloners",
		}),
		RecordingLength: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "paradox_recording_length",
			Help:    "Actions per saved recording",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		}),
		Crafted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "paradox_items_crafted_total",
			Help: "Crafts by recipe",
		}, []string{"recipe"}),
		Score: f.NewCounter(prometheus.CounterOpts{
			Name: "paradox_score_total",
			Help: "Score earned from crafting",
		}),
	}
}

func class(player bool) string {
	if player {
		return "player"
	}
	return "npc"
}

// Subscribe feeds m from bus.
func (m *Metrics) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(e event.ActionApplied) {
		m.Actions.WithLabelValues(class(e.Player), "applied").Inc()
	})
	event.Subscribe(bus, func(e event.ActionFailed) {
		m.Actions.WithLabelValues(class(e.Player), "failed").Inc()
	})
	event.Subscribe(bus, func(event.ActorSpawned) { m.Spawned.Inc() })
	event.Subscribe(bus, func(event.ActorDespawned) { m.Despawned.Inc() })
	event.Subscribe(bus, func(e event.ActorPerished) {
		m.Perished.WithLabelValues(strconv.FormatBool(e.Player)).Inc()
	})
	event.Subscribe(bus, func(e event.RecordingSaved) {
		m.Recordings.Inc()
		m.RecordingLength.Observe(float64(e.Length))
	})
	event.Subscribe(bus, func(e event.ItemCrafted) {
		m.Crafted.WithLabelValues(e.Recipe).Inc()
		m.Score.Add(float64(e.Score))
	})
}
