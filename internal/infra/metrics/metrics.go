// Package metrics exposes controller activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osa030/playerbox/internal/app/playback"
)

const namespace = "playerbox"

// Collector counts transitions, ignored events and hook failures and
// tracks the current state.
type Collector struct {
	registry *prometheus.Registry

	transitions *prometheus.CounterVec
	ignored     *prometheus.CounterVec
	failures    *prometheus.CounterVec
	state       *prometheus.GaugeVec
}

// New creates a collector registered on a fresh registry.
func New() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Number of applied state transitions.",
		}, []string{"from", "to", "event"}),
		ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ignored_events_total",
			Help:      "Number of events the current state did not handle.",
		}, []string{"state", "event"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hook_failures_total",
			Help:      "Number of actuator failures inside lifecycle hooks.",
		}, []string{"state", "phase"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "1 for the current state, 0 otherwise.",
		}, []string{"state"}),
	}

	for _, col := range []prometheus.Collector{c.transitions, c.ignored, c.failures, c.state} {
		if err := c.registry.Register(col); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}
	c.SetState(playback.StateInactive)

	return c, nil
}

// Options returns the controller options that feed this collector.
func (c *Collector) Options() []playback.Option {
	return []playback.Option{
		playback.WithTransitionHandler(c.ObserveTransition),
		playback.WithIgnoredHandler(c.ObserveIgnored),
		playback.WithFailureHandler(c.ObserveFailure),
		playback.WithLifecycleHandler(func(l playback.Lifecycle) {
			if l.Phase == playback.PhaseEntry {
				c.SetState(l.State)
			}
		}),
	}
}

// ObserveTransition records an applied transition.
func (c *Collector) ObserveTransition(t playback.Transition) {
	c.transitions.WithLabelValues(t.From.String(), t.To.String(), t.Event.String()).Inc()
}

// ObserveIgnored records an unhandled event.
func (c *Collector) ObserveIgnored(s playback.State, ev playback.Event) {
	c.ignored.WithLabelValues(s.String(), ev.String()).Inc()
}

// ObserveFailure records a hook failure.
func (c *Collector) ObserveFailure(e *playback.HookError) {
	c.failures.WithLabelValues(e.State.String(), e.Phase.String()).Inc()
}

// SetState marks s as the current state.
func (c *Collector) SetState(s playback.State) {
	for _, st := range playback.States() {
		v := 0.0
		if st == s {
			v = 1
		}
		c.state.WithLabelValues(st.String()).Set(v)
	}
}

// Handler returns the HTTP handler exposing the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
