// Package observability exposes machine activity as Prometheus metrics. A
// Metrics value subscribes to machine hooks and counts lifecycle callbacks
// and stack transitions, plus a gauge for the current stack depth.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rustgd/machinae"
)

// Metrics holds the collectors for one machine. Register one Metrics per
// machine per registerer; the collectors carry fixed names.
type Metrics struct {
	lifecycleCalls *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	stackDepth     prometheus.Gauge
}

// New creates and registers the collectors. A nil registerer falls back to
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		lifecycleCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "machinae_lifecycle_calls_total",
				Help: "Total number of lifecycle callbacks by call and state",
			},
			[]string{"call", "state"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "machinae_transitions_total",
				Help: "Total number of stack transitions by directive",
			},
			[]string{"op"},
		),
		stackDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "machinae_stack_depth",
				Help: "State stack depth after the last transition",
			},
		),
	}
	reg.MustRegister(m.lifecycleCalls, m.transitions, m.stackDepth)
	return m
}

// Hooks returns the hook set feeding these collectors. Combine with other
// subscribers via machinae.JoinHooks.
func (m *Metrics) Hooks() machinae.Hooks {
	return machinae.Hooks{
		OnStart:  m.lifecycle("start"),
		OnPause:  m.lifecycle("pause"),
		OnResume: m.lifecycle("resume"),
		OnStop:   m.lifecycle("stop"),
		OnTransition: func(e machinae.TransitionEvent) {
			m.transitions.WithLabelValues(e.Op.String()).Inc()
			m.stackDepth.Set(float64(e.Depth))
		},
	}
}

func (m *Metrics) lifecycle(call string) func(machinae.StateEvent) {
	return func(e machinae.StateEvent) {
		m.lifecycleCalls.WithLabelValues(call, e.State).Inc()
	}
}
