package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	registry    *prometheus.Registry
	actions     *prometheus.CounterVec
	renders     *prometheus.CounterVec
	saves       *prometheus.CounterVec
	subscribers prometheus.Gauge
	tripTotal   prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &metrics{
		registry: reg,
		actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripvault",
			Name:      "actions_total",
			Help:      "Planner actions received, by action and whether they changed the plan.",
		}, []string{"action", "result"}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripvault",
			Name:      "render_passes_total",
			Help:      "Render passes streamed to clients, by kind.",
		}, []string{"kind"}),
		saves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripvault",
			Name:      "remote_saves_total",
			Help:      "Remote save attempts, by outcome.",
		}, []string{"result"}),
		subscribers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tripvault",
			Name:      "stream_subscribers",
			Help:      "Open render streams.",
		}),
		tripTotal: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tripvault",
			Name:      "trip_total",
			Help:      "Trip total of the last render pass.",
		}),
	}
}
