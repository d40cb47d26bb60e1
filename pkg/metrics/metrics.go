// Package metrics exposes Prometheus collectors for the game server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	GamesFinished   *prometheus.CounterVec
	QueueDepth      prometheus.Gauge
	Connections     prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hex_commands_total",
				Help: "Total commands executed, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hex_command_duration_seconds",
				Help:    "Time spent executing a command against the game",
				Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
			},
			[]string{"kind"},
		),
		GamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hex_games_finished_total",
				Help: "Total games finished, by end reason",
			},
			[]string{"reason"},
		),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hex_command_queue_depth",
			Help: "Commands waiting in the session queue",
		}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hex_websocket_connections",
			Help: "Open websocket connections",
		}),
	}

	reg.MustRegister(
		m.CommandsTotal,
		m.CommandDuration,
		m.GamesFinished,
		m.QueueDepth,
		m.Connections,
	)
	return m
}

// ObserveCommand records one executed command.
func (m *Metrics) ObserveCommand(kind string, success bool, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.CommandsTotal.WithLabelValues(kind, outcome).Inc()
	m.CommandDuration.WithLabelValues(kind).Observe(took.Seconds())
}

// GameFinished counts a game that reached an end reason.
func (m *Metrics) GameFinished(reason string) {
	if m == nil {
		return
	}
	m.GamesFinished.WithLabelValues(reason).Inc()
}

// SetQueueDepth reports the number of queued commands.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

// ConnectionOpened and ConnectionClosed track live websocket clients.
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.Connections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.Connections.Dec()
}
